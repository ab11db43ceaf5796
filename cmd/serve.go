package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ByLCY/vitae/export"
	"github.com/ByLCY/vitae/server"
	"github.com/ByLCY/vitae/store"
	"github.com/ByLCY/vitae/suggest"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveMigrate bool

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Run database migrations on startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if serveMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	exp, err := export.New(nil, export.Options{
		FileName:         cfg.Export.FileName,
		SanitizeFileName: cfg.Export.SanitizeFileName,
		Strict:           cfg.Export.Strict,
	})
	if err != nil {
		return err
	}

	var suggester server.Suggester
	if cfg.GeminiAPIKey != "" {
		gen, err := suggest.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		client := suggest.NewClient(gen)
		defer client.Close()
		suggester = client
	} else {
		slog.Warn("GEMINI_API_KEY not set, suggestions disabled")
	}

	app := server.New(server.NewHandler(db, exp, suggester))
	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("listening", "addr", cfg.Addr)
	return app.Listen(cfg.Addr)
}
