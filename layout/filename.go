package layout

import (
	"regexp"
	"strings"

	"github.com/ByLCY/vitae/binding"
	"github.com/ByLCY/vitae/cv"
)

// DefaultFileName 是默认的输出文件名模板。
const DefaultFileName = "${title}.pdf"

var unsafeFileChars = regexp.MustCompile(`[/\\:*?"<>|\x00-\x1f]`)

// OutputName 用文档数据展开文件名模板。默认保持标题原样，
// 只有 sanitize 为 true 时才替换路径分隔符与控制字符。
func OutputName(pattern string, doc *cv.Document, sanitize bool) string {
	if pattern == "" {
		pattern = DefaultFileName
	}
	name := binding.Interpolate(pattern, doc)
	if !sanitize {
		return name
	}
	return SanitizeFileName(name)
}

// SanitizeFileName 把文件名中的危险字符替换为下划线，并去掉首尾的空白与点号。
func SanitizeFileName(name string) string {
	out := unsafeFileChars.ReplaceAllString(name, "_")
	out = strings.Trim(out, " .")
	if out == "" {
		return "cv.pdf"
	}
	return out
}
