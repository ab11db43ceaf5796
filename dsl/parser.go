// Package dsl 解析简历模板样式表。一个文件可以声明多个 template，例如：
//
//	template modern {
//	  page A4 portrait margin 10mm 15mm 20mm
//	  output: "${title}.pdf"
//	  style title { font: regular size: 18pt advance: 10mm }
//	}
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	templateLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:pt|mm|cm|in)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(templateLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// File 是模板文件的根节点。
type File struct {
	Pos       lexer.Position `parser:"" json:"-"`
	Templates []*Template    `parser:"Newline* ( @@ Newline* )*"`
}

// Template 对应一个 templateId 的完整样式定义。
type Template struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Name       string         `parser:"'template' @Ident"`
	Statements []*Statement   `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement 是 template 块内的一条语句。
type Statement struct {
	Page       *PageSpec   `parser:"  @@"`
	Style      *StyleDecl  `parser:"| @@"`
	Assignment *Assignment `parser:"| @@"`
}

// PageSpec 描述纸张、方向与页边距（1-4 个长度值）。
type PageSpec struct {
	Pos         lexer.Position `parser:"" json:"-"`
	Size        string         `parser:"'page' @Ident"`
	Orientation string         `parser:"@( 'portrait' | 'landscape' )?"`
	Margin      []string       `parser:"( 'margin' @Number+ )?"`
}

// StyleDecl 声明一种文本样式（title/heading/body/closing）。
type StyleDecl struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'style' @Ident"`
	Props []*Assignment  `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment 使用冒号语法（key: value）。
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Value 是属性值：字符串、带单位的数字或标识符。
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident"`
}

// Text 返回值的文本形式（字符串已去引号）。
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// PageSpec 返回模板中最后一个 page 声明；没有时返回 nil。
func (t *Template) PageSpec() *PageSpec {
	var out *PageSpec
	for _, st := range t.Statements {
		if st.Page != nil {
			out = st.Page
		}
	}
	return out
}

// Style 按名称查找样式声明，同名时后者覆盖前者。
func (t *Template) Style(name string) *StyleDecl {
	var out *StyleDecl
	for _, st := range t.Statements {
		if st.Style != nil && st.Style.Name == name {
			out = st.Style
		}
	}
	return out
}

// Get 返回模板级属性（如 output）。
func (t *Template) Get(key string) (string, bool) {
	found := false
	var val string
	for _, st := range t.Statements {
		if st.Assignment != nil && st.Assignment.Key == key {
			val, found = st.Assignment.Value.Text(), true
		}
	}
	return val, found
}

// Get 返回样式属性。
func (s *StyleDecl) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	found := false
	var val string
	for _, p := range s.Props {
		if p.Key == key {
			val, found = p.Value.Text(), true
		}
	}
	return val, found
}

// Lookup 按名称查找模板。
func (f *File) Lookup(name string) *Template {
	for _, t := range f.Templates {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Parse 从 io.Reader 解析模板文件。
func Parse(r io.Reader) (*File, error) {
	return fileParser.Parse("", r)
}

// ParseString 从字符串解析模板文件。
func ParseString(input string) (*File, error) {
	return fileParser.ParseString("", input)
}
