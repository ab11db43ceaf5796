package renderer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// DirSink 把文件写入目录。先写临时文件再重命名，失败时不会留下半截文件。
type DirSink struct {
	Dir string
}

// Write 实现 Sink。name 中的子目录会被自动创建。
func (s DirSink) Write(name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("文件名为空")
	}
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".vitae-*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("保存 %s 失败: %w", path, err)
	}
	return nil
}

// Path 返回 name 在目录中的完整路径。
func (s DirSink) Path(name string) string {
	if filepath.IsAbs(name) || s.Dir == "" {
		return name
	}
	return filepath.Join(s.Dir, name)
}

// MemorySink 在内存中保存文件，可并发使用。
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemorySink 创建空的 MemorySink。
func NewMemorySink() *MemorySink {
	return &MemorySink{files: map[string][]byte{}}
}

// Write 实现 Sink，同名文件后写覆盖先写。
func (s *MemorySink) Write(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	s.files[name] = append([]byte(nil), data...)
	return nil
}

// Get 返回保存的文件内容。
func (s *MemorySink) Get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return data, ok
}

// Names 按字典序返回所有文件名。
func (s *MemorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.files))
	for name := range s.files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
