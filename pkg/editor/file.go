package editor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/pkg/fsutil"
)

// DefaultName is shown for documents that were never saved.
const DefaultName = "noname.md"

// Extensions lists the file extensions the editor opens.
//
//nolint:gochecknoglobals // Read-only lookup table.
var Extensions = []string{".md", ".markdown", ".txt"}

// Sentinel errors for errors.Is.
var (
	// ErrNoPath indicates a Save on a document that has no file yet.
	ErrNoPath = errors.New("document has no file path")

	// ErrUnsupportedExtension indicates a file the editor does not open.
	ErrUnsupportedExtension = errors.New("unsupported file extension")

	// ErrModifiedOnDisk indicates the file changed on disk since it was
	// opened or last saved.
	ErrModifiedOnDisk = errors.New("file changed on disk")
)

type fileState struct {
	path  string
	info  *fsutil.FileInfo
	saved string
}

// Supported reports whether path has an extension the editor opens.
func Supported(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// Open loads path, replacing the document, and renders it at once from the
// top of the preview.
func (e *Editor) Open(ctx context.Context, path string) error {
	if !Supported(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedExtension, filepath.Base(path))
	}

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	text := string(content)

	e.mu.Lock()
	e.buf.SetText(text)
	e.find.Refresh()
	e.file = fileState{path: path, info: info, saved: text}
	e.setStatusLocked("status.opened", "filename", filepath.Base(path))
	e.mu.Unlock()

	e.logger.Debug("opened document", logging.FieldPath, path)
	e.reload()
	return nil
}

// NewDocument replaces the document with text and forgets the file.
func (e *Editor) NewDocument(text string) {
	e.mu.Lock()
	e.buf.SetText(text)
	e.find.Refresh()
	e.file = fileState{saved: text}
	e.setStatusLocked("status.no_file")
	e.mu.Unlock()

	e.reload()
}

// Save writes the document to its file. It refuses with ErrModifiedOnDisk
// when the file changed since it was read; SaveAs to the same path
// overwrites regardless.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	path, info := e.file.path, e.file.info
	e.mu.Unlock()

	if path == "" {
		return ErrNoPath
	}
	if info != nil {
		modified, err := fsutil.CheckModified(ctx, info)
		if err != nil {
			return fmt.Errorf("save document: %w", err)
		}
		if modified {
			return fmt.Errorf("%w: %s", ErrModifiedOnDisk, path)
		}
	}
	return e.SaveAs(ctx, path)
}

// SaveAs writes the document to path, which becomes its file. When backups
// are enabled the previous content of path is kept alongside.
func (e *Editor) SaveAs(ctx context.Context, path string) error {
	text := e.Text()

	if _, err := fsutil.CreateBackup(ctx, path, e.backups); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if err := fsutil.WriteAtomic(ctx, path, []byte(text), 0); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	_, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}

	e.mu.Lock()
	e.file = fileState{path: path, info: info, saved: text}
	e.setStatusLocked("status.saved", "filename", filepath.Base(path))
	e.mu.Unlock()

	e.logger.Debug("saved document", logging.FieldPath, path)
	return nil
}

// Dirty reports whether the text differs from what was last loaded or
// saved.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Text() != e.file.saved
}

// Path returns the document's file, or "" when unsaved.
func (e *Editor) Path() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.file.path
}

// DisplayName returns the file name, or DefaultName when unsaved.
func (e *Editor) DisplayName() string {
	if p := e.Path(); p != "" {
		return filepath.Base(p)
	}
	return DefaultName
}

// BaseName returns the file name without extension, used to name exports.
// It is "" when unsaved.
func (e *Editor) BaseName() string {
	p := e.Path()
	if p == "" {
		return ""
	}
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Dir returns the directory of the document's file, or "" when unsaved.
func (e *Editor) Dir() string {
	if p := e.Path(); p != "" {
		return filepath.Dir(p)
	}
	return ""
}
