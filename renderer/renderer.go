package renderer

import "github.com/ByLCY/vitae/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Sink 接收渲染好的文件。name 为导出文件名，可能包含路径分隔符。
type Sink interface {
	Write(name string, data []byte) error
}
