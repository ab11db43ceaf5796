// Package export renders CVs to PDF files.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/vitae/cv"
	"github.com/ByLCY/vitae/layout"
	"github.com/ByLCY/vitae/renderer"
	canvasrenderer "github.com/ByLCY/vitae/renderer/canvas"
)

// DefaultConcurrency bounds ExportAll when no limit is given.
const DefaultConcurrency = 4

// Options tune how files are named and whether input is validated.
type Options struct {
	// FileName overrides the template's output pattern.
	FileName string
	// SanitizeFileName replaces path separators and other unsafe characters.
	SanitizeFileName bool
	// Strict validates the CV before rendering.
	Strict bool
}

// Exporter renders CVs with the style of their template and hands the PDFs to a sink.
type Exporter struct {
	Styles      layout.Styles
	NewRenderer func() *canvasrenderer.Renderer
	Sink        renderer.Sink
	Options     Options
}

// Result describes one exported file.
type Result struct {
	Name   string
	Pages  int
	Bytes  int
	Style  layout.Style
	Layout *layout.Result
}

// New creates an exporter using the built-in templates.
func New(sink renderer.Sink, opts Options) (*Exporter, error) {
	styles, err := layout.BuiltinStyles()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return &Exporter{
		Styles:      styles,
		NewRenderer: canvasrenderer.NewRenderer,
		Sink:        sink,
		Options:     opts,
	}, nil
}

// Export renders a single CV. Each call uses a fresh writer.
func (e *Exporter) Export(doc *cv.Document) (Result, error) {
	if doc == nil {
		return Result{}, fmt.Errorf("document is nil")
	}
	if e.Options.Strict {
		if err := cv.Validate(doc); err != nil {
			return Result{}, err
		}
	}

	style := e.Styles.Lookup(doc.TemplateID)
	newRenderer := e.NewRenderer
	if newRenderer == nil {
		newRenderer = canvasrenderer.NewRenderer
	}
	w := canvasrenderer.NewWriter(style, newRenderer(), e.Sink)
	err := layout.Render(doc, w, layout.RenderOptions{
		Style:            &style,
		FileName:         e.Options.FileName,
		SanitizeFileName: e.Options.SanitizeFileName,
	})
	if err != nil {
		return Result{}, err
	}

	res := w.Result()
	slog.Info("cv exported", "name", res.Name, "template", style.Name, "pages", len(res.Pages), "bytes", w.Size())
	return Result{Name: res.Name, Pages: len(res.Pages), Bytes: w.Size(), Style: style, Layout: res}, nil
}

// ExportAll renders docs concurrently with at most limit exports in flight.
// The first failure cancels the remaining exports. Results keep the input order.
func (e *Exporter) ExportAll(ctx context.Context, docs []*cv.Document, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make([]Result, len(docs))
	var mu sync.Mutex // Protect result assignments
	for i, doc := range docs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := e.Export(doc)
			if err != nil {
				title := ""
				if doc != nil {
					title = doc.Title
				}
				return fmt.Errorf("export %d (%q) failed: %w", i, title, err)
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// WithSink returns a copy of the exporter that writes to sink.
func (e *Exporter) WithSink(sink renderer.Sink) *Exporter {
	c := *e
	c.Sink = sink
	return &c
}
