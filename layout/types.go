package layout

// 该文件定义布局结果，供渲染器与调试 JSON 共用。坐标与尺寸单位均为 mm，字号为 pt。

// Result 保存一次排版后的全部页面与文档信息。
type Result struct {
	Name  string       `json:"name"`
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// Page 记录页面尺寸与已排好坐标的文本。
type Page struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Texts  []TextBox `json:"texts"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// TextBox 表示一行已经定位的文本，Y 为基线位置（距页面顶部）。
type TextBox struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Font     string  `json:"font"`
	FontSize float64 `json:"fontSize"`
}

// TextLine 表示折行后的一行文本内容及其宽度。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
}

// FontResource 描述字体资源，src 形如 "embed:regular"。
type FontResource struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// TextCount 返回所有页面上的文本行数。
func (r *Result) TextCount() int {
	n := 0
	for _, p := range r.Pages {
		n += len(p.Texts)
	}
	return n
}
