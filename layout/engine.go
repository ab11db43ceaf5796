package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/vitae/cv"
)

// LineKind 标记一行文本在简历中的角色。
type LineKind string

const (
	KindTitle   LineKind = "title"
	KindHeading LineKind = "heading"
	KindField   LineKind = "field"
	KindSummary LineKind = "summary"
	KindEntry   LineKind = "entry"
	KindSkills  LineKind = "skills"
)

// 小节标题与个人信息字段前缀。
const (
	HeadingPersonal   = "Personal Information"
	HeadingEducation  = "Education"
	HeadingExperience = "Experience"
	HeadingSkills     = "Skills"
)

// Line 是不可再拆分的一行：跨页时整行移动，不会被截断。
type Line struct {
	Text  string    `json:"text"`
	Style TextStyle `json:"style"`
	Kind  LineKind  `json:"kind"`
}

// Cursor 是排版过程中的纵向位置与当前页序号（从 0 开始）。
type Cursor struct {
	Y    float64 `json:"y"`
	Page int     `json:"page"`
}

// Op 是一次放置操作。
type Op struct {
	Text     string   `json:"text"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Font     string   `json:"font"`
	FontSize float64  `json:"fontSize"`
	Page     int      `json:"page"`
	Kind     LineKind `json:"kind"`
}

// Geometry 是分页所需的页面几何信息（mm）。
type Geometry struct {
	Width  float64
	Height float64
	Margin Margin
}

// Limit 返回允许放置的最大 y。
func (g Geometry) Limit() float64 { return g.Height - g.Margin.Bottom }

// WrapFunc 按给定样式把文本折成若干行。
type WrapFunc func(text string, style TextStyle) ([]string, error)

// Plan 按固定顺序展开简历内容：标题、个人信息、教育、工作、技能。
// 空的教育、工作、技能小节整体省略；条目保持输入顺序。
func Plan(doc *cv.Document, style Style, wrap WrapFunc) ([]Line, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	var lines []Line
	add := func(kind LineKind, ts TextStyle, text string) {
		lines = append(lines, Line{Text: text, Style: ts, Kind: kind})
	}

	add(KindTitle, style.Title, doc.Title)

	p := doc.PersonalInfo
	add(KindHeading, style.Heading, HeadingPersonal)
	add(KindField, style.Body, "Name: "+p.FullName)
	add(KindField, style.Body, "Title: "+p.Title)
	add(KindField, style.Body, "Email: "+p.Email)
	add(KindField, style.Body, "Phone: "+p.Phone)
	add(KindField, style.Body, "Location: "+p.Location)
	add(KindField, style.Body, "Summary:")
	summary := []string{p.Summary}
	if wrap != nil {
		wrapped, err := wrap(p.Summary, style.Body)
		if err != nil {
			return nil, err
		}
		summary = wrapped
	}
	for _, s := range summary {
		add(KindSummary, style.Body, s)
	}

	if len(doc.Education) > 0 {
		add(KindHeading, style.Heading, HeadingEducation)
		for _, e := range doc.Education {
			add(KindEntry, style.Body, e.Degree+" in "+e.Field)
			add(KindEntry, style.Closing, fmt.Sprintf("%s (%s - %s)", e.Institution, e.StartDate, e.EndDate))
		}
	}

	if len(doc.Experience) > 0 {
		add(KindHeading, style.Heading, HeadingExperience)
		for _, e := range doc.Experience {
			add(KindEntry, style.Body, e.Position+" at "+e.Company)
			add(KindEntry, style.Closing, e.Period())
		}
	}

	if len(doc.Skills) > 0 {
		add(KindHeading, style.Heading, HeadingSkills)
		add(KindSkills, style.Closing, SkillsLine(doc.Skills))
	}
	return lines, nil
}

// SkillsLine 把技能拼成一行 "name (level/5), ..."，不折行。
func SkillsLine(skills []cv.Skill) string {
	parts := make([]string, len(skills))
	for i, s := range skills {
		parts[i] = s.Name + " (" + strconv.Itoa(s.Level) + "/5)"
	}
	return strings.Join(parts, ", ")
}

// Step 放置一行：放置前若光标已越过下边界则先换页，然后在左边距处放置并前进。
func Step(g Geometry, c Cursor, line Line) (Cursor, Op) {
	if c.Y > g.Limit() {
		c = Cursor{Y: g.Margin.Top, Page: c.Page + 1}
	}
	op := Op{
		Text:     line.Text,
		X:        g.Margin.Left,
		Y:        c.Y,
		Font:     line.Style.Font,
		FontSize: line.Style.Size,
		Page:     c.Page,
		Kind:     line.Kind,
	}
	c.Y += line.Style.Advance
	return c, op
}

// Paginate 从首页顶部开始依次对每行执行 Step，得到完整的放置序列。
func Paginate(g Geometry, lines []Line) []Op {
	ops := make([]Op, 0, len(lines))
	c := Cursor{Y: g.Margin.Top}
	for _, line := range lines {
		var op Op
		c, op = Step(g, c, line)
		ops = append(ops, op)
	}
	return ops
}

// PageCount 返回放置序列占用的页数。
func PageCount(ops []Op) int {
	if len(ops) == 0 {
		return 1
	}
	return ops[len(ops)-1].Page + 1
}

// Render 把简历排版到写入器上并保存。写入器在任意一步失败时立即返回 *ExportError，
// 不会继续保存。
func Render(doc *cv.Document, w PageWriter, opts RenderOptions) error {
	if doc == nil {
		return fmt.Errorf("文档为空")
	}
	if w == nil {
		return fmt.Errorf("写入器为空")
	}
	style := opts.style()
	width, height := w.PageSize()
	g := Geometry{Width: width, Height: height, Margin: style.Margin}
	maxWidth := width - 2*style.Margin.Left

	lines, err := Plan(doc, style, func(text string, ts TextStyle) ([]string, error) {
		w.SetFont(ts.Font)
		w.SetFontSize(ts.Size)
		out, err := w.WrapText(text, maxWidth)
		return out, exportErr("wrap", err)
	})
	if err != nil {
		return err
	}

	if m, ok := w.(MetaSetter); ok {
		m.SetMeta(Meta(doc))
	}

	page := 0
	for _, op := range Paginate(g, lines) {
		for page < op.Page {
			if err := w.AddPage(); err != nil {
				return exportErr("add-page", err)
			}
			page++
		}
		w.SetFont(op.Font)
		w.SetFontSize(op.FontSize)
		if err := w.PlaceText(op.Text, op.X, op.Y); err != nil {
			return exportErr("place", err)
		}
	}
	name := OutputName(opts.fileNamePattern(style), doc, opts.SanitizeFileName)
	return exportErr("save", w.Save(name))
}

// Meta 从简历生成 PDF 元信息。
func Meta(doc *cv.Document) DocumentMeta {
	keywords := make([]string, 0, len(doc.Skills))
	for _, s := range doc.Skills {
		keywords = append(keywords, s.Name)
	}
	return DocumentMeta{
		Title:    doc.Title,
		Author:   doc.PersonalInfo.FullName,
		Subject:  doc.PersonalInfo.Title,
		Creator:  "vitae",
		Keywords: keywords,
	}
}
