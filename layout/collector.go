package layout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSaved 表示写入器已经保存，不能继续写入。
var ErrSaved = errors.New("文档已保存")

type pageAccumulator struct {
	texts []TextBox
}

func (p *pageAccumulator) appendText(tb TextBox) {
	p.texts = append(p.texts, tb)
}

// Collector 是内存中的 PageWriter：把放置的文本按页收集为 Result，
// 折行交给 Typesetter。它本身不产生 PDF，渲染器在 Save 之后读取 Result。
type Collector struct {
	width      float64
	height     float64
	typesetter Typesetter
	font       string
	fontSize   float64
	accs       []*pageAccumulator
	name       string
	meta       DocumentMeta
	saved      bool
}

// NewCollector 创建一个只有一页的收集器，页面尺寸单位为 mm。
func NewCollector(width, height float64, ts Typesetter) *Collector {
	c := &Collector{
		width:      width,
		height:     height,
		typesetter: ts,
		font:       "regular",
		fontSize:   DefaultStyle().Body.Size,
	}
	c.newPage()
	return c
}

func (c *Collector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	c.accs = append(c.accs, acc)
	return acc
}

func (c *Collector) curr() *pageAccumulator {
	return c.accs[len(c.accs)-1]
}

// PageSize 返回页面宽高（mm）。
func (c *Collector) PageSize() (float64, float64) { return c.width, c.height }

// SetFont 设置后续文本使用的字体名。
func (c *Collector) SetFont(name string) {
	if name != "" {
		c.font = name
	}
}

// SetFontSize 设置后续文本的字号（pt）。
func (c *Collector) SetFontSize(size float64) { c.fontSize = size }

// SetMeta 记录文档元信息。
func (c *Collector) SetMeta(meta DocumentMeta) { c.meta = meta }

// PlaceText 在当前页放置一行文本。
func (c *Collector) PlaceText(text string, x, y float64) error {
	if c.saved {
		return ErrSaved
	}
	c.curr().appendText(TextBox{Content: text, X: x, Y: y, Font: c.font, FontSize: c.fontSize})
	return nil
}

// AddPage 开始新的一页。
func (c *Collector) AddPage() error {
	if c.saved {
		return ErrSaved
	}
	c.newPage()
	return nil
}

// WrapText 用当前字体和字号折行。
func (c *Collector) WrapText(text string, maxWidth float64) ([]string, error) {
	if c.typesetter == nil {
		return nil, fmt.Errorf("未配置排版器")
	}
	font := FontResource{Name: c.font, Src: "embed:" + strings.ToLower(c.font)}
	lines, err := c.typesetter.LayoutLines(text, maxWidth, font, c.fontSize)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Content
	}
	return out, nil
}

// Save 记录输出文件名并冻结收集器。
func (c *Collector) Save(name string) error {
	if c.saved {
		return ErrSaved
	}
	c.name = name
	c.saved = true
	return nil
}

// PageCount 返回当前页数。
func (c *Collector) PageCount() int { return len(c.accs) }

// Result 返回收集到的页面。
func (c *Collector) Result() *Result {
	pages := make([]Page, len(c.accs))
	for i, acc := range c.accs {
		pages[i] = Page{
			Width:  c.width,
			Height: c.height,
			Texts:  append([]TextBox(nil), acc.texts...),
		}
	}
	return &Result{Name: c.name, Pages: pages, Meta: c.meta}
}
