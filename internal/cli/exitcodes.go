package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpane/pkg/editor"
	"github.com/yaklabco/mdpane/pkg/export"
	"github.com/yaklabco/mdpane/pkg/fsutil"
	"github.com/yaklabco/mdpane/pkg/style"
)

// Exit codes for mdpane.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitNoMatches indicates find or replace ran but the query matched nothing.
	ExitNoMatches = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitUnavailable indicates a required external tool is missing.
	ExitUnavailable = 69

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrNoMatches is returned by find and replace when the query matches
	// nothing. It only selects the exit code.
	ErrNoMatches = errors.New("no matches")

	// ErrConfig marks configuration errors.
	ErrConfig = errors.New("configuration error")

	// ErrUsage marks invalid arguments.
	ErrUsage = errors.New("invalid usage")
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrNoMatches):
		return ExitNoMatches
	case errors.Is(err, ErrUsage),
		errors.Is(err, editor.ErrUnsupportedExtension),
		errors.Is(err, editor.ErrNoPath):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig),
		errors.Is(err, style.ErrNotFound),
		errors.Is(err, style.ErrMalformed):
		return ExitConfigError
	case errors.Is(err, export.ErrToolMissing),
		errors.Is(err, export.ErrClipboardUnavailable):
		return ExitUnavailable
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, editor.ErrModifiedOnDisk):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// exactArgs is cobra.ExactArgs with errors marked as usage errors.
func exactArgs(n int) func(cmd *cobra.Command, args []string) error {
	check := cobra.ExactArgs(n)
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return errors.Join(ErrUsage, err)
		}
		return nil
	}
}
