// Package logging defines the structured-logging interface used across
// MediaVault. Adapters wrap log/slog (default) and zap.
package logging

import "context"

// Logger is a context-aware, structured logger. Implementations add the
// request id stored with WithRequestID to every line logged with that ctx.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "index synchronized", "records", n)
type Logger interface {
	// Debug logs diagnostic detail, off by default.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs normal operation: verification results, syncs, mutations.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs recoverable trouble such as a failed request.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures the user has to act on.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
