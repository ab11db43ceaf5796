package cv

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

var rowSchema = gojsonschema.NewBytesLoader(schemaJSON)

// Load 从 JSON 读取简历：先按内置 schema 检查结构，再解码为 Document。
// 结构不符时返回 *InputIncompleteError。
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cv: 读取输入失败: %w", err)
	}
	return Decode(data)
}

// LoadFile 从文件读取简历。
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cv: 无法打开 %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Decode 校验并解码一段 JSON。
func Decode(data []byte) (*Document, error) {
	res, err := gojsonschema.Validate(rowSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("cv: 解析 JSON 失败: %w", err)
	}
	if !res.Valid() {
		out := &InputIncompleteError{}
		for _, re := range res.Errors() {
			out.Fields = append(out.Fields, FieldError{Field: schemaField(re), Rule: re.Type()})
		}
		return nil, out
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cv: 解码失败: %w", err)
	}
	return &doc, nil
}

// schemaField 把 gojsonschema 的上下文路径（(root).education.0 + degree）
// 统一成与 validator 一致的写法（education[0].degree）。
func schemaField(re gojsonschema.ResultError) string {
	field := strings.TrimPrefix(re.Context().String(), "(root)")
	field = strings.TrimPrefix(field, ".")
	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok {
			if field == "" {
				field = prop
			} else {
				field = field + "." + prop
			}
		}
	}
	if field == "" {
		return "(root)"
	}
	parts := strings.Split(field, ".")
	var b strings.Builder
	for i, p := range parts {
		if isIndex(p) {
			b.WriteString("[" + p + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
