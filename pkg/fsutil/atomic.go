package fsutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFileMode is the mode of newly created files.
const DefaultFileMode os.FileMode = 0o644

// staged is a temp file next to its destination, waiting to be renamed
// over it.
type staged struct {
	file *os.File
	dest string
	done bool
}

func stage(dest string) (*staged, error) {
	f, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp.*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &staged{file: f, dest: dest}, nil
}

// commit flushes the content and moves it into place.
func (s *staged) commit(content []byte, mode os.FileMode) error {
	steps := []struct {
		what string
		run  func() error
	}{
		{"write", func() error { _, err := s.file.Write(content); return err }},
		{"sync", s.file.Sync},
		{"close", s.file.Close},
		{"chmod", func() error { return os.Chmod(s.file.Name(), mode) }},
		{"rename", func() error { return os.Rename(s.file.Name(), s.dest) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("%s temp file: %w", step.what, err)
		}
	}
	s.done = true
	return nil
}

// discard removes the temp file unless it was committed.
func (s *staged) discard() {
	if s.done {
		return
	}
	_ = s.file.Close()
	_ = os.Remove(s.file.Name())
}

// WriteAtomic replaces path with content so readers see either the old or
// the new file, never a partial one. A zero mode keeps the mode of an
// existing file, or DefaultFileMode for a new one. On error path is left
// untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if mode == 0 {
		mode = existingMode(path)
	}

	s, err := stage(path)
	if err != nil {
		return err
	}
	defer s.discard()

	return s.commit(content, mode)
}

func existingMode(path string) os.FileMode {
	if stat, err := os.Stat(path); err == nil {
		return stat.Mode().Perm()
	}
	return DefaultFileMode
}

// WriteAtomicIfChanged skips the write when path already holds content.
// It reports whether a write happened.
func WriteAtomicIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("read existing: %w", err)
	}
	if err := WriteAtomic(ctx, path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}
