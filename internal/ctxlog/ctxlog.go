// Package ctxlog carries the application's slog.Logger through
// context.Context so that packages deep in the call tree log through the
// logger configured at startup.
package ctxlog

import (
	"context"
	"io"
	"log/slog"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

// loggerKey is the key for the slog.Logger in a context.Context.
var loggerKey = key{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the slog.Logger from a context. A context without a
// logger is a wiring mistake and panics.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
			return logger
		}
	}
	panic("ctxlog: logger missing from context")
}

// With returns a context whose logger carries the given attributes.
func With(ctx context.Context, args ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(args...))
}

// Discard returns a context carrying a logger that drops everything. Tests
// use it to keep output quiet.
func Discard() context.Context {
	return WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}
