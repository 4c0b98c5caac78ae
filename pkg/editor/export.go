package editor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/pkg/export"
)

// ExportHTML writes the rendered document next to its file (or to the temp
// directory when unsaved) and returns the new file's path.
func (e *Editor) ExportHTML(ctx context.Context) (string, error) {
	doc, err := e.Document()
	if err != nil {
		return "", err
	}

	path, err := export.HTML(ctx, doc, e.Dir(), e.BaseName())
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	e.setStatusLocked("status.exported", "filename", filepath.Base(path))
	e.mu.Unlock()

	e.logger.Debug("exported html", logging.FieldOutput, path)
	return path, nil
}

// CopyHTML puts the rendered document on the clipboard.
func (e *Editor) CopyHTML() error {
	doc, err := e.Document()
	if err != nil {
		return err
	}
	if err := export.Clipboard(doc, e.clip); err != nil {
		return err
	}

	e.mu.Lock()
	e.setStatusLocked("status.copied_html")
	e.mu.Unlock()
	return nil
}

// PDFAvailable reports whether the PDF converter is installed.
func (e *Editor) PDFAvailable() bool {
	return e.pdf.Available()
}

// ExportPDF converts the rendered document to a PDF at out.
func (e *Editor) ExportPDF(ctx context.Context, out string) error {
	doc, err := e.Document()
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.setStatusLocked("status.generating_pdf")
	e.mu.Unlock()

	if err := e.pdf.Export(ctx, doc, out); err != nil {
		e.mu.Lock()
		e.setStatusLocked("status.error_pdf")
		e.mu.Unlock()
		return fmt.Errorf("export pdf: %w", err)
	}

	e.mu.Lock()
	e.setStatusLocked("status.exported", "filename", filepath.Base(out))
	e.mu.Unlock()
	return nil
}
