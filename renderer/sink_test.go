package renderer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirSinkWritesNestedName(t *testing.T) {
	dir := t.TempDir()
	sink := DirSink{Dir: dir}
	if err := sink.Write("My/CV:Report.pdf", []byte("%PDF-1.7")); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "My", "CV:Report.pdf"))
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if string(data) != "%PDF-1.7" {
		t.Fatalf("内容不符: %q", data)
	}
	entries, _ := os.ReadDir(filepath.Join(dir, "My"))
	if len(entries) != 1 {
		t.Fatalf("不应残留临时文件: %d 个条目", len(entries))
	}
}

func TestDirSinkRejectsEmptyName(t *testing.T) {
	if err := (DirSink{Dir: t.TempDir()}).Write("", nil); err == nil {
		t.Fatalf("空文件名应该失败")
	}
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()
	_ = s.Write("b.pdf", []byte("2"))
	_ = s.Write("a.pdf", []byte("1"))
	_ = s.Write("a.pdf", []byte("3"))
	if got := s.Names(); len(got) != 2 || got[0] != "a.pdf" || got[1] != "b.pdf" {
		t.Fatalf("文件名列表错误: %v", got)
	}
	if data, ok := s.Get("a.pdf"); !ok || string(data) != "3" {
		t.Fatalf("后写应覆盖先写: %q", data)
	}
}
