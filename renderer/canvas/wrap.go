package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/vitae/layout"
)

// textMeasurer 是折行所需的最小能力，*canvas.FontFace 满足它。
type textMeasurer interface {
	TextWidth(s string) float64
}

var _ textMeasurer = (*canvas.FontFace)(nil)

// greedyWrapTokens 优先在空白处分割，单词超过行宽时按字符拆分。
// 显式换行保留为空行；行首行尾的空白会被去掉。宽度单位为 mm。
func greedyWrapTokens(content string, width float64, face textMeasurer) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}
	space := face.TextWidth(" ")

	var lines []layout.TextLine
	var builder strings.Builder
	currentWidth := 0.0
	pendingSpace := false

	emit := func() {
		lines = append(lines, layout.TextLine{Content: builder.String(), Width: currentWidth})
		builder.Reset()
		currentWidth = 0
		pendingSpace = false
	}

	appendWord := func(word string, w float64) {
		if builder.Len() > 0 && pendingSpace {
			builder.WriteByte(' ')
			currentWidth += space
		}
		builder.WriteString(word)
		currentWidth += w
		pendingSpace = false
	}

	for _, token := range tokenizeContent(content) {
		switch {
		case token == "\n":
			emit()
			continue
		case strings.TrimSpace(token) == "":
			pendingSpace = builder.Len() > 0
			continue
		}

		tokenWidth := face.TextWidth(token)
		if builder.Len() > 0 && currentWidth+space+tokenWidth > limit {
			emit()
		}
		if tokenWidth <= limit {
			appendWord(token, tokenWidth)
			continue
		}
		for _, chunk := range splitTokenByWidth(token, limit, face) {
			chunkWidth := face.TextWidth(chunk)
			if builder.Len() > 0 {
				emit()
			}
			appendWord(chunk, chunkWidth)
		}
	}
	if builder.Len() > 0 || len(lines) == 0 || strings.HasSuffix(content, "\n") {
		emit()
	}
	return lines
}

// tokenizeContent 把文本拆成单词、空白串和换行符三类 token。
func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

// splitTokenByWidth 按字符把单词切成不超过 limit 的片段，每段至少一个字符。
func splitTokenByWidth(token string, limit float64, face textMeasurer) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var current []rune
	for _, r := range token {
		current = append(current, r)
		if len(current) > 1 && face.TextWidth(string(current)) > limit {
			parts = append(parts, string(current[:len(current)-1]))
			current = []rune{r}
		}
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}
