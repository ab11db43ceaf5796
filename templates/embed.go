// Package templates 内置四种简历模板的样式表源文件。
package templates

import (
	_ "embed"
	"io"
	"strings"
)

//go:embed builtin.cvt
var builtin string

// Open 以 Reader 形式返回内置模板源文本。
func Open() io.Reader { return strings.NewReader(builtin) }
