package layout

// PageWriter 是排版引擎驱动的分页文档写入器。坐标单位为 mm，y 为距页面顶部的基线位置；
// 字号单位为 pt。引擎不关心写入器如何落盘或绘制。
type PageWriter interface {
	PageSize() (width, height float64)
	SetFont(name string)
	SetFontSize(size float64)
	PlaceText(text string, x, y float64) error
	AddPage() error
	// WrapText 按当前字体与字号把文本折成宽度不超过 maxWidth 的若干行。
	WrapText(text string, maxWidth float64) ([]string, error)
	Save(name string) error
}

// MetaSetter 是写入器的可选能力：接收文档元信息。
type MetaSetter interface {
	SetMeta(meta DocumentMeta)
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64) ([]TextLine, error)
}

// RenderOptions 控制一次渲染使用的样式与输出文件名。
type RenderOptions struct {
	Style *Style
	// FileName 为输出文件名模板，留空时使用样式中的 output，再退回 ${title}.pdf。
	FileName string
	// SanitizeFileName 为 true 时替换文件名中的路径分隔符等危险字符。
	SanitizeFileName bool
}

func (o RenderOptions) style() Style {
	if o.Style != nil {
		return *o.Style
	}
	return DefaultStyle()
}

func (o RenderOptions) fileNamePattern(style Style) string {
	if o.FileName != "" {
		return o.FileName
	}
	return style.Output
}
