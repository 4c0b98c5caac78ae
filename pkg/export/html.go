// Package export writes rendered documents out of the editor: standalone
// HTML files, the system clipboard, and PDF through an external converter.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/yaklabco/mdpane/pkg/fsutil"
)

// DefaultBaseName names exports of documents that were never saved.
const DefaultBaseName = "document"

// UniquePath returns dir/base+ext, or the first free "base (n)"+ext when
// that file exists.
func UniquePath(dir, base, ext string) string {
	path := filepath.Join(dir, base+ext)
	for n := 1; exists(path); n++ {
		path = filepath.Join(dir, base+" ("+strconv.Itoa(n)+")"+ext)
	}
	return path
}

// HTML writes doc to a new file named after base in dir and returns its
// path. An empty or missing dir falls back to the system temp directory;
// an empty base uses DefaultBaseName. Existing files are never overwritten.
func HTML(ctx context.Context, doc, dir, base string) (string, error) {
	if info, err := os.Stat(dir); dir == "" || err != nil || !info.IsDir() {
		dir = os.TempDir()
	}
	if base == "" {
		base = DefaultBaseName
	}

	path := UniquePath(dir, base, ".html")
	if err := fsutil.WriteAtomic(ctx, path, []byte(doc), 0); err != nil {
		return "", fmt.Errorf("export html: %w", err)
	}
	return path, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
