package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ByLCY/vitae/cv"
	"github.com/ByLCY/vitae/store"
	"github.com/ByLCY/vitae/suggest"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	suggestUser  string
	suggestJD    string
	suggestMerge string
	suggestWrite bool
)

//nolint:gochecknoglobals // Cobra boilerplate
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask Gemini for CV suggestions for a job description",
	Long: `Analyze a job description and print suggestions as JSON.

The candidate background comes from the user's stored profile (--user) or
from the CV passed to --merge. With --merge the suggestions are applied to
that CV file; --write saves the result back.

Example:
  vitae suggest --jd job.txt --user 6f1c...
  vitae suggest --jd job.txt --merge jane.json --write`,
	Args: cobra.NoArgs,
	RunE: runSuggest,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().StringVar(&suggestJD, "jd", "", "Job description file (required)")
	suggestCmd.Flags().StringVar(&suggestUser, "user", "", "User ID whose stored profile is used as background")
	suggestCmd.Flags().StringVar(&suggestMerge, "merge", "", "CV JSON file to merge the suggestions into")
	suggestCmd.Flags().BoolVar(&suggestWrite, "write", false, "Write the merged CV back to the --merge file")
	_ = suggestCmd.MarkFlagRequired("jd")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireGemini(); err != nil {
		return err
	}

	jd, err := os.ReadFile(suggestJD)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read job description: %s", suggestJD)
	}

	var doc *cv.Document
	if suggestMerge != "" {
		if doc, err = cv.LoadFile(suggestMerge); err != nil {
			return err
		}
	}
	profile, err := loadProfile(ctx, cfg.DatabaseURL, doc)
	if err != nil {
		return err
	}

	gen, err := suggest.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return err
	}
	client := suggest.NewClient(gen)
	defer client.Close()

	s, err := client.Suggest(ctx, string(jd), profile)
	if err != nil {
		return err
	}

	out := map[string]any{"suggestion": s}
	if doc != nil {
		report := suggest.Merge(doc, s)
		out["merge"] = report
		if suggestWrite {
			if err := writeDocument(suggestMerge, doc); err != nil {
				return err
			}
		}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// loadProfile prefers the stored profile and falls back to the CV being merged.
func loadProfile(ctx context.Context, databaseURL string, doc *cv.Document) (*cv.Profile, error) {
	if suggestUser != "" && databaseURL != "" {
		userID, err := uuid.Parse(suggestUser)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "invalid --user")
		}
		db, err := store.Connect(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		p, err := db.GetProfile(ctx, userID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	if doc != nil {
		return cv.ProfileFromDocument(doc), nil
	}
	return nil, nil
}

func writeDocument(path string, doc *cv.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(err, "failed to encode cv")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
