// Package logging defines the structured-logging interface used by the
// engines and the CLI, and its log/slog implementation.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "channel open", "conversation_id", id, "channel_id", chID)
type Logger interface {
	// Debug logs state transitions and other high-volume detail.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs caller contract violations and other non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs transport and server failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
