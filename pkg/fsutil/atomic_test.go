package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpane/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("# hi"), 0))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "# hi", string(got))
	})

	t.Run("replaces file and keeps its mode", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" {
			t.Skip("unix permissions")
		}

		path := filepath.Join(t.TempDir(), "doc.md")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

		require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("new"), 0))

		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, fsutil.WriteAtomic(ctx, filepath.Join(dir, "a.md"), []byte("a"), 0))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		err := fsutil.WriteAtomic(ctx, filepath.Join(t.TempDir(), "no", "a.md"), []byte("a"), 0)
		require.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		path := filepath.Join(t.TempDir(), "a.md")
		require.ErrorIs(t, fsutil.WriteAtomic(cancelled, path, []byte("a"), 0), context.Canceled)
		assert.NoFileExists(t, path)
	})
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "preview.html")

	wrote, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("<p>1</p>"), 0)
	require.NoError(t, err)
	assert.True(t, wrote, "missing file is written")

	wrote, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("<p>1</p>"), 0)
	require.NoError(t, err)
	assert.False(t, wrote, "same content is skipped")

	wrote, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("<p>2</p>"), 0)
	require.NoError(t, err)
	assert.True(t, wrote)
}
