package layout

import "fmt"

// ExportError 表示写入器在放置文本、换页、折行或保存时失败。
type ExportError struct {
	Op  string // wrap / place / add-page / save
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("导出失败(%s): %v", e.Op, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

func exportErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*ExportError); ok {
		return err
	}
	return &ExportError{Op: op, Err: err}
}
