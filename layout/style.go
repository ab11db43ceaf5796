package layout

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ByLCY/vitae/dsl"
	"github.com/ByLCY/vitae/fonts"
	"github.com/ByLCY/vitae/templates"
)

// TextStyle 描述一类文本行：字体、字号(pt)以及放置后光标前进的距离(mm)。
type TextStyle struct {
	Font    string  `json:"font"`
	Size    float64 `json:"size"`
	Advance float64 `json:"advance"`
}

// Style 是一个模板解析后的完整样式。
type Style struct {
	Name    string    `json:"name"`
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Margin  Margin    `json:"margin"`
	Title   TextStyle `json:"title"`
	Heading TextStyle `json:"heading"`
	Body    TextStyle `json:"body"`
	Closing TextStyle `json:"closing"` // 条目的最后一行以及技能行
	Output  string    `json:"output"`
}

var pagePresets = map[string][2]float64{
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
	"LEGAL":  {215.9, 355.6},
}

// DefaultStyle 返回 A4 纸张下的默认样式。
func DefaultStyle() Style {
	return Style{
		Name:    "modern",
		Width:   210,
		Height:  297,
		Margin:  Margin{Top: 10, Right: 15, Bottom: 20, Left: 15},
		Title:   TextStyle{Font: "regular", Size: 18, Advance: 10},
		Heading: TextStyle{Font: "regular", Size: 14, Advance: 8},
		Body:    TextStyle{Font: "regular", Size: 12, Advance: 7},
		Closing: TextStyle{Font: "regular", Size: 12, Advance: 10},
		Output:  DefaultFileName,
	}
}

// Styles 按模板 id 保存已解析的样式。
type Styles map[string]Style

// Lookup 返回模板对应样式；未知 id 回退到默认样式。
func (s Styles) Lookup(id string) Style {
	if st, ok := s[id]; ok {
		return st
	}
	if st, ok := s[DefaultStyle().Name]; ok {
		return st
	}
	return DefaultStyle()
}

var (
	builtinOnce   sync.Once
	builtinStyles Styles
	builtinErr    error
)

// BuiltinStyles 解析内置模板，结果只计算一次。
func BuiltinStyles() (Styles, error) {
	builtinOnce.Do(func() {
		builtinStyles, builtinErr = LoadStyles(templates.Open())
	})
	return builtinStyles, builtinErr
}

// LoadStyles 解析模板样式表，返回 templateId → Style。
// 模板中未声明的属性取默认样式的值。
func LoadStyles(r io.Reader) (Styles, error) {
	file, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析模板失败: %w", err)
	}
	out := make(Styles, len(file.Templates))
	for _, tpl := range file.Templates {
		st, err := StyleFromTemplate(tpl)
		if err != nil {
			return nil, fmt.Errorf("模板 %s: %w", tpl.Name, err)
		}
		out[tpl.Name] = st
	}
	return out, nil
}

// StyleFromTemplate 把单个模板声明转换为 Style。
func StyleFromTemplate(tpl *dsl.Template) (Style, error) {
	st := DefaultStyle()
	st.Name = tpl.Name
	if spec := tpl.PageSpec(); spec != nil {
		w, h, err := resolvePageSize(spec)
		if err != nil {
			return Style{}, err
		}
		st.Width, st.Height = w, h
		if len(spec.Margin) > 0 {
			m, err := resolveMargin(spec.Margin)
			if err != nil {
				return Style{}, err
			}
			st.Margin = m
		}
	}
	if out, ok := tpl.Get("output"); ok {
		st.Output = out
	}
	for name, target := range map[string]*TextStyle{
		"title":   &st.Title,
		"heading": &st.Heading,
		"body":    &st.Body,
		"closing": &st.Closing,
	} {
		if err := applyTextStyle(target, tpl.Style(name)); err != nil {
			return Style{}, fmt.Errorf("样式 %s: %w", name, err)
		}
	}
	return st, nil
}

func applyTextStyle(ts *TextStyle, decl *dsl.StyleDecl) error {
	if decl == nil {
		return nil
	}
	if font, ok := decl.Get("font"); ok {
		if !fonts.Has(font) {
			return fmt.Errorf("未知字体: %s", font)
		}
		ts.Font = font
	}
	if raw, ok := decl.Get("size"); ok {
		l, err := ParseLength(raw)
		if err != nil {
			return err
		}
		if l.ToPT() <= 0 {
			return fmt.Errorf("字号必须大于 0: %s", raw)
		}
		ts.Size = l.ToPT()
	}
	if raw, ok := decl.Get("advance"); ok {
		l, err := ParseLength(raw)
		if err != nil {
			return err
		}
		ts.Advance = l.ToMM()
	}
	return nil
}

func resolvePageSize(spec *dsl.PageSpec) (float64, float64, error) {
	base, ok := pagePresets[strings.ToUpper(spec.Size)]
	if !ok {
		return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", spec.Size)
	}
	width, height := base[0], base[1]
	if spec.Orientation == "landscape" {
		width, height = height, width
	}
	return width, height, nil
}

// resolveMargin 采用 CSS 语义：
// 1 个值四边相同；2 个值为上下/左右；3 个值为上/左右/下；4 个值为上/右/下/左。
func resolveMargin(raw []string) (Margin, error) {
	if len(raw) > 4 {
		return Margin{}, fmt.Errorf("margin 最多 4 个值，实际 %d 个", len(raw))
	}
	vals := make([]float64, len(raw))
	for i, r := range raw {
		l, err := ParseLength(r)
		if err != nil {
			return Margin{}, err
		}
		vals[i] = l.ToMM()
	}
	switch len(vals) {
	case 1:
		v := vals[0]
		return Margin{Top: v, Right: v, Bottom: v, Left: v}, nil
	case 2:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, nil
	case 3:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}, nil
	default:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	}
}
