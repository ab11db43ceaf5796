package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ByLCY/vitae/cv"
	"github.com/ByLCY/vitae/export"
	"github.com/ByLCY/vitae/layout"
	"github.com/ByLCY/vitae/renderer"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	renderOut      string
	renderDebug    string
	renderTemplate string
	renderFileName string
	renderSanitize bool
	renderStrict   bool
)

//nolint:gochecknoglobals // Cobra boilerplate
var renderCmd = &cobra.Command{
	Use:   "render <cv.json>",
	Short: "Render a CV JSON file to PDF",
	Long: `Render a CV stored as JSON (same shape as the cvs table) into a PDF.

Example:
  vitae render jane.json --out pdfs --template classic
  vitae render jane.json --debug layout.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderOut, "out", "", "Output directory (default from config)")
	renderCmd.Flags().StringVar(&renderDebug, "debug", "", "Write the page layout as JSON to this path")
	renderCmd.Flags().StringVar(&renderTemplate, "template", "", "Override the CV template (modern, classic, creative, minimalist)")
	renderCmd.Flags().StringVar(&renderFileName, "file-name", "", "Output file name pattern, e.g. '${personal_info.fullName}.pdf'")
	renderCmd.Flags().BoolVar(&renderSanitize, "sanitize", false, "Replace unsafe characters in the output file name")
	renderCmd.Flags().BoolVar(&renderStrict, "strict", false, "Validate the CV before rendering")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	doc, err := cv.LoadFile(args[0])
	if err != nil {
		return err
	}
	if renderTemplate != "" {
		if !cv.KnownTemplate(renderTemplate) {
			return errors.Errorf("unknown template %q", renderTemplate)
		}
		doc.TemplateID = renderTemplate
	}

	outDir := renderOut
	if outDir == "" {
		outDir = cfg.Export.OutputDir
	}
	fileName := renderFileName
	if fileName == "" {
		fileName = cfg.Export.FileName
	}
	sink := renderer.DirSink{Dir: outDir}
	e, err := export.New(sink, export.Options{
		FileName:         fileName,
		SanitizeFileName: renderSanitize || cfg.Export.SanitizeFileName,
		Strict:           renderStrict || cfg.Export.Strict,
	})
	if err != nil {
		return err
	}

	res, err := e.Export(doc)
	if err != nil {
		return errors.Wrap(err, "failed to render pdf")
	}
	if renderDebug != "" {
		if err := layout.WriteDebugJSON(res.Layout, res.Style, renderDebug); err != nil {
			return errors.Wrap(err, "failed to write debug json")
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "PDF written: %s (%d pages)\n", sink.Path(res.Name), res.Pages)
	return nil
}
