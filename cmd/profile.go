package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ByLCY/vitae/cv"
	"github.com/ByLCY/vitae/store"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	profileUser string
	profileFrom string
)

//nolint:gochecknoglobals // Cobra boilerplate
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Store a user profile built from a CV",
	Long: `Save the background used by 'suggest' for a user. The profile is taken
from the personal info, skills, experience and education of a CV file.

Example:
  vitae profile --user 6f1c... --from jane.json`,
	Args: cobra.NoArgs,
	RunE: runProfile,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVar(&profileUser, "user", "", "User ID (required)")
	profileCmd.Flags().StringVar(&profileFrom, "from", "", "CV JSON file (required)")
	_ = profileCmd.MarkFlagRequired("user")
	_ = profileCmd.MarkFlagRequired("from")
}

func runProfile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	userID, err := uuid.Parse(profileUser)
	if err != nil {
		return errors.Wrap(err, "invalid --user")
	}
	doc, err := cv.LoadFile(profileFrom)
	if err != nil {
		return err
	}

	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.UpsertProfile(ctx, userID, cv.ProfileFromDocument(doc)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Profile saved for %s\n", userID)
	return nil
}
