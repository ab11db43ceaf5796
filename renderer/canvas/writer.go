package canvasrenderer

import (
	"log/slog"

	"github.com/ByLCY/vitae/layout"
	"github.com/ByLCY/vitae/renderer"
)

// Writer 是真正产出 PDF 的 layout.PageWriter：先在 Collector 中收集页面，
// Save 时渲染成 PDF 并交给 Sink。
type Writer struct {
	*layout.Collector
	renderer renderer.Renderer
	sink     renderer.Sink
	size     int
}

var _ layout.PageWriter = (*Writer)(nil)

// NewWriter 按样式的纸张尺寸创建写入器，折行与渲染都使用 r。
func NewWriter(style layout.Style, r *Renderer, sink renderer.Sink) *Writer {
	return &Writer{
		Collector: layout.NewCollector(style.Width, style.Height, r),
		renderer:  r,
		sink:      sink,
	}
}

// Save 渲染收集到的页面并写入 Sink。
func (w *Writer) Save(name string) error {
	if err := w.Collector.Save(name); err != nil {
		return &layout.ExportError{Op: "save", Err: err}
	}
	res := w.Collector.Result()
	data, err := w.renderer.Render(res)
	if err != nil {
		return &layout.ExportError{Op: "render", Err: err}
	}
	if w.sink != nil {
		if err := w.sink.Write(name, data); err != nil {
			return &layout.ExportError{Op: "write", Err: err}
		}
	}
	w.size = len(data)
	slog.Debug("pdf rendered", "name", name, "pages", len(res.Pages), "bytes", len(data))
	return nil
}

// Size 返回最近一次生成的 PDF 字节数。
func (w *Writer) Size() int { return w.size }
