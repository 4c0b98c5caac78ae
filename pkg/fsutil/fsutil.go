// Package fsutil provides the file primitives behind document and profile
// persistence: atomic writes, reads that remember what was read, external
// modification checks, and sidecar backups.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Sentinel errors for errors.Is.
var (
	ErrNilFileInfo      = errors.New("nil FileInfo")
	ErrNotFound         = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIsDirectory      = errors.New("path is a directory")
)

// FileInfo is what a document looked like on disk when it was read. Save
// compares against it to detect edits made by another program.
type FileInfo struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64
	Hash    [sha256.Size]byte
}

func snapshot(path string, stat fs.FileInfo, content []byte) *FileInfo {
	return &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}
}

// sameStat reports whether stat still matches the snapshot's size and
// modification time.
func (fi *FileInfo) sameStat(stat fs.FileInfo) bool {
	return stat.Size() == fi.Size && stat.ModTime().Equal(fi.ModTime)
}

// ReadFile reads path and snapshots it.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	return content, snapshot(path, stat, content), nil
}

// CheckModified reports whether the file changed since info was taken. A
// different size or modification time answers at once; when both match
// the content is hashed again. A deleted file counts as modified.
func CheckModified(ctx context.Context, info *FileInfo) (bool, error) {
	if info == nil {
		return false, ErrNilFileInfo
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check %s: %w", info.Path, err)
	}

	stat, err := os.Stat(info.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("stat %s: %w", info.Path, err)
	case !info.sameStat(stat):
		return true, nil
	}

	content, err := os.ReadFile(info.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", info.Path, err)
	}
	return sha256.Sum256(content) != info.Hash, nil
}

// classify wraps err with the matching sentinel.
func classify(path string, err error) error {
	for _, c := range []struct {
		target, sentinel error
	}{
		{fs.ErrNotExist, ErrNotFound},
		{fs.ErrPermission, ErrPermissionDenied},
	} {
		if errors.Is(err, c.target) {
			return fmt.Errorf("%w: %s: %w", c.sentinel, path, err)
		}
	}
	return fmt.Errorf("read %s: %w", path, err)
}
