package traceutil

import (
	"strings"
	"sync"

	"github.com/muir/list"
)

// Buffer is an io.Writer for tests: writes may arrive from multiple
// goroutines and each Write is kept whole.
type Buffer struct {
	mu sync.Mutex
	b  []byte
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.b = append(b.b, p...)
	return len(p), nil
}

func (b *Buffer) WriteString(s string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.b = append(b.b, s...)
	return len(s), nil
}

func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return list.Copy(b.b)
}

func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.b)
}

// Lines splits the contents on newlines, dropping the trailing empty
// element left by a final newline.
func (b *Buffer) Lines() []string {
	s := b.String()
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.b = b.b[:0]
}
