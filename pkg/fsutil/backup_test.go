package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpane/pkg/fsutil"
)

func TestParseBackupMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    fsutil.BackupMode
		wantErr bool
	}{
		{"", fsutil.BackupModeSidecar, false},
		{"sidecar", fsutil.BackupModeSidecar, false},
		{"none", fsutil.BackupModeNone, false},
		{"cloud", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			got, err := fsutil.ParseBackupMode(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, fsutil.ErrUnknownBackupMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBackupPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "notes.md.mdpane.bak", fsutil.BackupPath("notes.md", fsutil.BackupModeSidecar))
	assert.Empty(t, fsutil.BackupPath("notes.md", fsutil.BackupModeNone))
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	enabled := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	t.Run("copies current content and refreshes", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

		created, err := fsutil.CreateBackup(ctx, path, enabled)
		require.NoError(t, err)
		assert.True(t, created)

		require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
		_, err = fsutil.CreateBackup(ctx, path, enabled)
		require.NoError(t, err)

		got, err := os.ReadFile(path + fsutil.BackupSuffix)
		require.NoError(t, err)
		assert.Equal(t, "v2", string(got))
	})

	t.Run("missing original", func(t *testing.T) {
		t.Parallel()

		created, err := fsutil.CreateBackup(ctx, filepath.Join(t.TempDir(), "new.md"), enabled)
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

		created, err := fsutil.CreateBackup(ctx, path, fsutil.DefaultBackupConfig())
		require.NoError(t, err)
		assert.False(t, created)
		assert.NoFileExists(t, path+fsutil.BackupSuffix)
	})
}
