package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ByLCY/vitae/cv"
	"github.com/ByLCY/vitae/export"
	"github.com/ByLCY/vitae/renderer"
	"github.com/ByLCY/vitae/store"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	exportUser string
	exportID   string
	exportAll  bool
	exportOut  string
)

//nolint:gochecknoglobals // Cobra boilerplate
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored CVs to PDF",
	Long: `Export one or all CVs of a user from the database.

Example:
  vitae export --user 6f1c... --id 0b9e...
  vitae export --user 6f1c... --all --out pdfs`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportUser, "user", "", "User ID (required)")
	exportCmd.Flags().StringVar(&exportID, "id", "", "CV ID to export")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every CV of the user")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output directory (default from config)")
	_ = exportCmd.MarkFlagRequired("user")
	exportCmd.MarkFlagsMutuallyExclusive("id", "all")
	exportCmd.MarkFlagsOneRequired("id", "all")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	userID, err := uuid.Parse(exportUser)
	if err != nil {
		return errors.Wrap(err, "invalid --user")
	}

	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	var docs []*cv.Document
	if exportAll {
		records, err := db.ListCVs(ctx, userID)
		if err != nil {
			return err
		}
		for _, r := range records {
			docs = append(docs, r.Document)
		}
	} else {
		id, err := uuid.Parse(exportID)
		if err != nil {
			return errors.Wrap(err, "invalid --id")
		}
		record, err := db.GetCV(ctx, id, userID)
		if err != nil {
			return errors.Wrapf(err, "cv %s", id)
		}
		docs = append(docs, record.Document)
	}

	outDir := exportOut
	if outDir == "" {
		outDir = cfg.Export.OutputDir
	}
	sink := renderer.DirSink{Dir: outDir}
	e, err := export.New(sink, export.Options{
		FileName:         cfg.Export.FileName,
		SanitizeFileName: cfg.Export.SanitizeFileName,
		Strict:           cfg.Export.Strict,
	})
	if err != nil {
		return err
	}

	results, err := e.ExportAll(ctx, docs, cfg.Export.Concurrency)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "PDF written: %s (%d pages)\n", sink.Path(r.Name), r.Pages)
	}
	return nil
}
