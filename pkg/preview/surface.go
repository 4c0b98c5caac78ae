package preview

import (
	"context"
	"fmt"
	"sync"

	"github.com/yaklabco/mdpane/pkg/fsutil"
)

// Surface displays rendered HTML. Implementations without a scrollable
// viewport report the scroll fraction as unavailable.
type Surface interface {
	LoadHTML(html string) error
	ScrollFraction() (float64, bool)
	SetScrollFraction(fraction float64) error
}

// FileSurface writes each rendered document to a file, for browsers that
// reload on change. It has no viewport of its own.
type FileSurface struct {
	Path string

	mu    sync.Mutex
	loads int
}

// NewFileSurface returns a surface writing to path.
func NewFileSurface(path string) *FileSurface {
	return &FileSurface{Path: path}
}

// LoadHTML writes html to the target path atomically. Unchanged content is
// not rewritten.
func (s *FileSurface) LoadHTML(html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fsutil.WriteAtomicIfChanged(context.Background(), s.Path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	s.loads++
	return nil
}

// Loads returns how many documents were loaded.
func (s *FileSurface) Loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

// ScrollFraction is unavailable for files.
func (s *FileSurface) ScrollFraction() (float64, bool) {
	return 0, false
}

// SetScrollFraction is a no-op for files.
func (s *FileSurface) SetScrollFraction(float64) error {
	return nil
}
