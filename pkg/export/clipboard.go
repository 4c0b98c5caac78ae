package export

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when the platform has no clipboard
// utility.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// ClipboardFunc writes text to a clipboard.
type ClipboardFunc func(text string) error

// SystemClipboard writes to the system clipboard.
func SystemClipboard(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// Clipboard copies doc with write. A nil write uses SystemClipboard.
func Clipboard(doc string, write ClipboardFunc) error {
	if write == nil {
		write = SystemClipboard
	}
	if err := write(doc); err != nil {
		return fmt.Errorf("copy html: %w", err)
	}
	return nil
}
