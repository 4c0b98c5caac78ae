// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Options configures a logger built by NewWith.
type Options struct {
	// Level is one of "debug", "info", "warn" or "error". Anything else
	// means info.
	Level string

	// Output defaults to stderr.
	Output io.Writer

	Prefix     string
	Timestamps bool
}

//nolint:gochecknoglobals // process-wide default logger
var defaultLogger atomic.Pointer[log.Logger]

// ParseLevel maps a level name to a log level. The second result is false
// when name is not recognized, in which case the level is info.
func ParseLevel(name string) (log.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return log.DebugLevel, true
	case "info", "":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	default:
		return log.InfoLevel, false
	}
}

// New creates a stderr logger at the given level.
func New(level string) *log.Logger {
	return NewWith(Options{Level: level})
}

// NewWith creates a logger from opts.
func NewWith(opts Options) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logger := log.NewWithOptions(out, log.Options{
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.Timestamps,
	})
	level, _ := ParseLevel(opts.Level)
	logger.SetLevel(level)
	return logger
}

// NewCommandOutput creates an info logger for messages a command prints to
// the user, such as "wrote .mdpane.yml".
func NewCommandOutput(w io.Writer) *log.Logger {
	return NewWith(Options{Level: "info", Output: w})
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	logger.SetLevel(log.FatalLevel)
	return logger
}

// Default returns the process-wide logger, creating an info logger on
// first use.
func Default() *log.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, New("info"))
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger. A nil logger is ignored.
func SetDefault(logger *log.Logger) {
	if logger != nil {
		defaultLogger.Store(logger)
	}
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	parsed, _ := ParseLevel(level)
	Default().SetLevel(parsed)
}

// OrDefault returns logger when non-nil, otherwise the process-wide one.
func OrDefault(logger *log.Logger) *log.Logger {
	if logger != nil {
		return logger
	}
	return Default()
}
