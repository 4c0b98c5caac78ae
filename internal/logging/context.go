package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

// WithLogger attaches logger to ctx.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return log.WithContext(ctx, logger)
}

// WithDocument attaches a child of logger that tags every entry with the
// document path.
func WithDocument(ctx context.Context, logger *log.Logger, path string) context.Context {
	return WithLogger(ctx, OrDefault(logger).With(FieldPath, path))
}

// FromContext returns the logger attached to ctx, or Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(log.ContextKey).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}
