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
	editUser string
	editID   string
	editOut  string
)

//nolint:gochecknoglobals // Cobra boilerplate
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a saved CV step by step",
	Long: `Load a CV from the database and walk through the wizard with its
current values as defaults. The validated result replaces the stored CV.

With --out the edited CV is also written as JSON.`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editUser, "user", "", "Owner of the CV (required)")
	editCmd.Flags().StringVar(&editID, "id", "", "CV ID (required)")
	editCmd.Flags().StringVar(&editOut, "out", "", "Also write the edited CV JSON here")
	_ = editCmd.MarkFlagRequired("user")
	_ = editCmd.MarkFlagRequired("id")
}

type cvEditor interface {
	GetCV(ctx context.Context, id, userID uuid.UUID) (*store.CV, error)
	UpdateCV(ctx context.Context, id, userID uuid.UUID, doc *cv.Document) error
}

func runEdit(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(editUser)
	if err != nil {
		return errors.Wrap(err, "invalid --user")
	}
	id, err := uuid.Parse(editID)
	if err != nil {
		return errors.Wrap(err, "invalid --id")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	ctx := cmd.Context()
	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	return editCV(ctx, newPrompter(cmd), db, id, userID)
}

func editCV(ctx context.Context, p *prompter, db cvEditor, id, userID uuid.UUID) error {
	record, err := db.GetCV(ctx, id, userID)
	if err != nil {
		return errors.Wrapf(err, "failed to load CV %s", id)
	}
	doc, err := runWizard(p, record.Document)
	if err != nil {
		return err
	}
	if err := db.UpdateCV(ctx, id, userID, doc); err != nil {
		return errors.Wrapf(err, "failed to save CV %s", id)
	}
	fmt.Fprintf(p.out, "CV updated: %s\n", id)
	if editOut == "" {
		return nil
	}
	if err := writeDocument(editOut, doc); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "CV written: %s\n", editOut)
	return nil
}
