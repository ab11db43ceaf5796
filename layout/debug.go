package layout

import (
	"encoding/json"
	"os"
)

// debugDump 是 --debug 输出的 JSON 结构：样式、分页统计与逐页文本坐标。
type debugDump struct {
	Name      string       `json:"name"`
	Style     Style        `json:"style"`
	PageCount int          `json:"pageCount"`
	LineCount int          `json:"lineCount"`
	Meta      DocumentMeta `json:"meta"`
	Pages     []Page       `json:"pages"`
}

// WriteDebugJSON 将布局结果与所用样式写成 JSON，便于检查坐标与分页。
func WriteDebugJSON(res *Result, style Style, path string) error {
	if res == nil {
		return nil
	}
	dump := debugDump{
		Name:      res.Name,
		Style:     style,
		PageCount: len(res.Pages),
		LineCount: res.TextCount(),
		Meta:      res.Meta,
		Pages:     res.Pages,
	}
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
