package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ByLCY/vitae/cv"
)

// stubTypesetter 以等宽字体近似：每个字符 4mm，按空白贪心折行，超长单词按字符切分。
type stubTypesetter struct {
	perRune float64
	err     error
}

func (s stubTypesetter) LayoutLines(content string, width float64, font FontResource, fontSize float64) ([]TextLine, error) {
	if s.err != nil {
		return nil, s.err
	}
	per := s.perRune
	if per == 0 {
		per = 4
	}
	maxRunes := int(width / per)
	if maxRunes < 1 {
		maxRunes = 1
	}
	var out []TextLine
	var cur []rune
	flush := func() {
		out = append(out, TextLine{Content: string(cur), Width: float64(len(cur)) * per})
		cur = nil
	}
	for _, word := range strings.Fields(content) {
		w := []rune(word)
		for len(w) > maxRunes {
			if len(cur) > 0 {
				flush()
			}
			cur = w[:maxRunes]
			flush()
			w = w[maxRunes:]
		}
		need := len(w)
		if len(cur) > 0 {
			need += len(cur) + 1
		}
		if need > maxRunes {
			flush()
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, w...)
	}
	if len(cur) > 0 || len(out) == 0 {
		flush()
	}
	return out, nil
}

func sampleDoc() *cv.Document {
	return &cv.Document{
		Title:      "Jane Doe CV",
		TemplateID: "modern",
		PersonalInfo: cv.PersonalInfo{
			FullName: "Jane Doe",
			Title:    "Backend Engineer",
			Email:    "jane@example.com",
			Phone:    "+1 555 0100",
			Location: "Berlin",
			Summary:  "Builds reliable services.",
		},
		Education: []cv.Education{
			{Institution: "TU Berlin", Degree: "MSc", Field: "Computer Science", StartDate: "10/2012", EndDate: "09/2014"},
		},
		Experience: []cv.Experience{
			{Company: "Acme", Position: "Engineer", Location: "Berlin", StartDate: "01/2015", EndDate: "12/2019", Description: "APIs"},
		},
		Skills: []cv.Skill{{Name: "Go", Level: 5}, {Name: "SQL", Level: 3}},
	}
}

func render(t *testing.T, doc *cv.Document, opts RenderOptions) *Collector {
	t.Helper()
	c := NewCollector(210, 297, stubTypesetter{})
	if err := Render(doc, c, opts); err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	return c
}

func allTexts(res *Result) []string {
	var out []string
	for _, p := range res.Pages {
		for _, tb := range p.Texts {
			out = append(out, tb.Content)
		}
	}
	return out
}

func indexOf(items []string, want string) int {
	for i, s := range items {
		if s == want {
			return i
		}
	}
	return -1
}

func TestRenderMinimalDocumentPositions(t *testing.T) {
	doc := sampleDoc()
	doc.Education, doc.Experience, doc.Skills = nil, nil, nil
	res := render(t, doc, RenderOptions{}).Result()

	if len(res.Pages) != 1 {
		t.Fatalf("期望 1 页，实际 %d", len(res.Pages))
	}
	want := []string{
		"Jane Doe CV", "Personal Information", "Name: Jane Doe", "Title: Backend Engineer",
		"Email: jane@example.com", "Phone: +1 555 0100", "Location: Berlin", "Summary:",
		"Builds reliable services.",
	}
	if got := allTexts(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("文本不符:\n got=%q\nwant=%q", got, want)
	}
	wantY := []float64{10, 20, 28, 35, 42, 49, 56, 63, 70}
	for i, tb := range res.Pages[0].Texts {
		if tb.Y != wantY[i] || tb.X != 15 {
			t.Fatalf("第 %d 行位置错误: (%g,%g)，期望 (15,%g)", i, tb.X, tb.Y, wantY[i])
		}
	}
	if res.Pages[0].Texts[0].FontSize != 18 || res.Pages[0].Texts[1].FontSize != 14 || res.Pages[0].Texts[2].FontSize != 12 {
		t.Fatalf("字号不符: %+v", res.Pages[0].Texts[:3])
	}
	if res.Name != "Jane Doe CV.pdf" {
		t.Fatalf("文件名错误: %q", res.Name)
	}
}

// 技能为空时不出现 Skills 小节，其余小节按固定顺序出现。
func TestRenderOmitsEmptySkills(t *testing.T) {
	doc := sampleDoc()
	doc.Skills = nil
	texts := allTexts(render(t, doc, RenderOptions{}).Result())

	if indexOf(texts, HeadingSkills) != -1 {
		t.Fatalf("不应出现 Skills 小节: %q", texts)
	}
	headings := []string{doc.Title, HeadingPersonal, HeadingEducation, HeadingExperience}
	last := -1
	for _, h := range headings {
		idx := indexOf(texts, h)
		if idx <= last {
			t.Fatalf("小节 %q 顺序错误或缺失: %q", h, texts)
		}
		last = idx
	}
	if got := texts[indexOf(texts, HeadingEducation)+1:][:2]; got[0] != "MSc in Computer Science" || got[1] != "TU Berlin (10/2012 - 09/2014)" {
		t.Fatalf("教育条目错误: %q", got)
	}
}

func TestRenderOmitsEmptyEducationAndExperience(t *testing.T) {
	doc := sampleDoc()
	doc.Education, doc.Experience = nil, nil
	texts := allTexts(render(t, doc, RenderOptions{}).Result())
	for _, h := range []string{HeadingEducation, HeadingExperience} {
		if indexOf(texts, h) != -1 {
			t.Fatalf("不应出现 %s 小节", h)
		}
	}
	if texts[len(texts)-1] != "Go (5/5), SQL (3/5)" {
		t.Fatalf("技能行错误: %q", texts[len(texts)-1])
	}
}

func TestRenderLongSummarySpansPages(t *testing.T) {
	doc := sampleDoc()
	words := make([]string, 0, 400)
	for i := 0; len(strings.Join(words, " ")) < 2000; i++ {
		words = append(words, fmt.Sprintf("word%03d", i))
	}
	doc.PersonalInfo.Summary = strings.Join(words, " ")[:2000]

	c := render(t, doc, RenderOptions{})
	res := c.Result()
	if len(res.Pages) < 2 {
		t.Fatalf("2000 字符的摘要应跨页，实际 %d 页", len(res.Pages))
	}
	limit := 297.0 - 20
	for pi, p := range res.Pages {
		for _, tb := range p.Texts {
			if tb.Y > limit {
				t.Fatalf("第 %d 页文本 %q 越过下边界: y=%g", pi, tb.Content, tb.Y)
			}
		}
	}
	// 跨页处整行移动：每个摘要行都是原文的完整单词序列。
	var wrapped []string
	for _, text := range allTexts(res) {
		if strings.HasPrefix(text, "word") {
			wrapped = append(wrapped, text)
		}
	}
	if strings.Join(wrapped, " ") != strings.Join(strings.Fields(doc.PersonalInfo.Summary), " ") {
		t.Fatalf("折行后重新拼接应与摘要一致")
	}
	if res.Pages[1].Texts[0].Y != 10 {
		t.Fatalf("新页应从上边距开始，实际 y=%g", res.Pages[1].Texts[0].Y)
	}
}

func TestRenderSplitsOverlongSummaryWord(t *testing.T) {
	doc := sampleDoc()
	word := strings.Repeat("abcdefghij", 12)
	doc.PersonalInfo.Summary = "Short " + word + " tail"

	texts := allTexts(render(t, doc, RenderOptions{}).Result())
	start, end := indexOf(texts, "Summary:"), indexOf(texts, HeadingEducation)
	if start < 0 || end <= start {
		t.Fatalf("找不到摘要区域: %v", texts)
	}
	lines := texts[start+1 : end]
	if len(lines) < 3 {
		t.Fatalf("超宽单词应切成多行，实际 %d 行: %v", len(lines), lines)
	}
	for _, l := range lines {
		if strings.Contains(l, word) {
			t.Fatalf("超宽单词不应整体出现在一行: %q", l)
		}
	}
	// 按字符切分：去掉空白后内容不丢失，但用空格重新拼接不再等于原文。
	if got := strings.ReplaceAll(strings.Join(lines, ""), " ", ""); got != strings.ReplaceAll(doc.PersonalInfo.Summary, " ", "") {
		t.Fatalf("切分后字符应保持不变: %q", got)
	}
	if strings.Join(lines, " ") == doc.PersonalInfo.Summary {
		t.Fatalf("超宽单词被切开后，空格拼接不应还原摘要")
	}
}

func TestRenderExperiencePeriods(t *testing.T) {
	doc := sampleDoc()
	doc.Experience = nil
	for i := 0; i < 20; i++ {
		doc.Experience = append(doc.Experience, cv.Experience{
			Company: fmt.Sprintf("Co%d", i), Position: "Dev",
			StartDate: "01/2010", EndDate: fmt.Sprintf("%02d/2011", i%12+1),
		})
	}
	texts := allTexts(render(t, doc, RenderOptions{}).Result())
	for i, e := range doc.Experience {
		idx := indexOf(texts, "Dev at "+e.Company)
		if idx < 0 {
			t.Fatalf("缺少第 %d 条经历", i)
		}
		if want := e.StartDate + " - " + e.EndDate; texts[idx+1] != want {
			t.Fatalf("经历 %d 时间段错误: %q，期望 %q", i, texts[idx+1], want)
		}
	}
	if indexOf(texts, "01/2010 - Present") != -1 {
		t.Fatalf("非当前经历不应显示 Present")
	}
}

func TestRenderCurrentExperienceShowsPresent(t *testing.T) {
	doc := sampleDoc()
	doc.Experience[0].Current = true
	doc.Experience[0].EndDate = "12/2019"
	texts := allTexts(render(t, doc, RenderOptions{}).Result())
	if indexOf(texts, "01/2015 - Present") == -1 {
		t.Fatalf("当前经历应显示 Present: %q", texts)
	}
}

func TestRenderFileNameVerbatimAndSanitized(t *testing.T) {
	doc := sampleDoc()
	doc.Title = "My/CV:Report"
	if got := render(t, doc, RenderOptions{}).Result().Name; got != "My/CV:Report.pdf" {
		t.Fatalf("默认应原样使用标题: %q", got)
	}
	if got := render(t, doc, RenderOptions{SanitizeFileName: true}).Result().Name; got != "My_CV_Report.pdf" {
		t.Fatalf("清理后的文件名错误: %q", got)
	}
	if got := render(t, doc, RenderOptions{FileName: "${personal_info.fullName} - ${title}.pdf"}).Result().Name; got != "Jane Doe - My/CV:Report.pdf" {
		t.Fatalf("自定义文件名模板错误: %q", got)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	doc := sampleDoc()
	a := render(t, doc, RenderOptions{}).Result()
	b := render(t, doc, RenderOptions{}).Result()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("同一文档两次渲染结果不同")
	}
}

func TestStepBreaksOnlyPastLimit(t *testing.T) {
	g := Geometry{Width: 210, Height: 297, Margin: Margin{Top: 10, Left: 15, Right: 15, Bottom: 20}}
	line := Line{Text: "x", Style: TextStyle{Size: 12, Advance: 7}}

	c, op := Step(g, Cursor{Y: 277, Page: 0}, line)
	if op.Page != 0 || op.Y != 277 || c.Y != 284 {
		t.Fatalf("恰好在边界上不应换页: op=%+v cursor=%+v", op, c)
	}
	c, op = Step(g, c, line)
	if op.Page != 1 || op.Y != 10 || c.Y != 17 || c.Page != 1 {
		t.Fatalf("越过边界应先换页: op=%+v cursor=%+v", op, c)
	}
}

func TestPaginateMatchesStepFold(t *testing.T) {
	g := Geometry{Width: 210, Height: 100, Margin: Margin{Top: 10, Left: 15, Bottom: 20}}
	var lines []Line
	for i := 0; i < 30; i++ {
		lines = append(lines, Line{Text: fmt.Sprint(i), Style: TextStyle{Size: 12, Advance: 7}})
	}
	ops := Paginate(g, lines)
	if len(ops) != len(lines) {
		t.Fatalf("放置数量错误: %d", len(ops))
	}
	c := Cursor{Y: g.Margin.Top}
	for i, op := range ops {
		broke := c.Y > g.Limit()
		if broke != (op.Page == c.Page+1) {
			t.Fatalf("第 %d 行换页判断错误: cursor=%+v op=%+v", i, c, op)
		}
		if op.Y > g.Limit() {
			t.Fatalf("第 %d 行越界: %g", i, op.Y)
		}
		c = Cursor{Y: op.Y + 7, Page: op.Page}
	}
	if PageCount(ops) != ops[len(ops)-1].Page+1 {
		t.Fatalf("页数统计错误")
	}
}

// failingWriter 在第 n 次 PlaceText 时失败，并记录是否调用过 Save。
type failingWriter struct {
	*Collector
	failAt int
	placed int
	saved  bool
}

func (f *failingWriter) PlaceText(text string, x, y float64) error {
	f.placed++
	if f.placed == f.failAt {
		return errors.New("磁盘已满")
	}
	return f.Collector.PlaceText(text, x, y)
}

func (f *failingWriter) Save(name string) error {
	f.saved = true
	return f.Collector.Save(name)
}

func TestRenderPropagatesWriterFailure(t *testing.T) {
	w := &failingWriter{Collector: NewCollector(210, 297, stubTypesetter{}), failAt: 3}
	err := Render(sampleDoc(), w, RenderOptions{})
	var exportErr *ExportError
	if !errors.As(err, &exportErr) || exportErr.Op != "place" {
		t.Fatalf("期望 place 阶段的 ExportError，实际 %v", err)
	}
	if w.saved {
		t.Fatalf("失败后不应保存")
	}
}

func TestRenderPropagatesWrapFailure(t *testing.T) {
	c := NewCollector(210, 297, stubTypesetter{err: errors.New("字体缺失")})
	err := Render(sampleDoc(), c, RenderOptions{})
	var exportErr *ExportError
	if !errors.As(err, &exportErr) || exportErr.Op != "wrap" {
		t.Fatalf("期望 wrap 阶段的 ExportError，实际 %v", err)
	}
}

func TestCollectorRejectsWritesAfterSave(t *testing.T) {
	c := NewCollector(210, 297, nil)
	if err := c.Save("a.pdf"); err != nil {
		t.Fatalf("保存失败: %v", err)
	}
	if err := c.PlaceText("x", 0, 0); !errors.Is(err, ErrSaved) {
		t.Fatalf("保存后写入应失败: %v", err)
	}
	if _, err := c.WrapText("x", 10); err == nil {
		t.Fatalf("未配置排版器时折行应失败")
	}
}

func TestRenderUsesTemplateStyle(t *testing.T) {
	styles, err := BuiltinStyles()
	if err != nil {
		t.Fatalf("加载内置模板失败: %v", err)
	}
	classic := styles.Lookup("classic")
	res := render(t, sampleDoc(), RenderOptions{Style: &classic}).Result()
	first := res.Pages[0].Texts[0]
	if first.Font != "bold" || first.FontSize != 20 || first.Y != 12 || first.X != 20 {
		t.Fatalf("classic 标题样式错误: %+v", first)
	}
	if res.Meta.Author != "Jane Doe" || !reflect.DeepEqual(res.Meta.Keywords, []string{"Go", "SQL"}) {
		t.Fatalf("元信息错误: %+v", res.Meta)
	}
}

func TestWriteDebugJSON(t *testing.T) {
	res := render(t, sampleDoc(), RenderOptions{}).Result()
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteDebugJSON(res, DefaultStyle(), path); err != nil {
		t.Fatalf("写调试文件失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取调试文件失败: %v", err)
	}
	if !strings.Contains(string(data), `"pageCount": 1`) || !strings.Contains(string(data), "Personal Information") {
		t.Fatalf("调试 JSON 内容不完整: %s", data)
	}
}
