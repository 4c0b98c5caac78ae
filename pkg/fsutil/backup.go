package fsutil

import (
	"context"
	"errors"
	"fmt"
)

// BackupMode specifies how backups are stored.
type BackupMode string

const (
	// BackupModeSidecar keeps the backup next to the file, with BackupSuffix
	// appended to its name.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is appended to the file name of sidecar backups.
const BackupSuffix = ".mdpane.bak"

// ErrUnknownBackupMode is returned by ParseBackupMode.
var ErrUnknownBackupMode = errors.New("unknown backup mode")

// ParseBackupMode parses a configured mode. The empty string means sidecar.
func ParseBackupMode(s string) (BackupMode, error) {
	switch BackupMode(s) {
	case "", BackupModeSidecar:
		return BackupModeSidecar, nil
	case BackupModeNone:
		return BackupModeNone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackupMode, s)
	}
}

// BackupConfig controls backups on save.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackupConfig returns the defaults: sidecar mode, disabled.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{Mode: BackupModeSidecar}
}

// BackupPath returns where the backup of path lives, or "" when mode
// disables backups.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// CreateBackup copies the current content of path to its backup before a
// save overwrites it, replacing any older backup. It reports whether a
// backup was written; a missing original or disabled backups write
// nothing.
func CreateBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	if !cfg.Enabled {
		return false, nil
	}
	backupPath := BackupPath(path, cfg.Mode)
	if backupPath == "" {
		return false, nil
	}

	content, info, err := ReadFile(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read original for backup: %w", err)
	}

	if err := WriteAtomic(ctx, backupPath, content, info.Mode.Perm()); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}
