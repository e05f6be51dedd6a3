// Package logging defines the structured, context-aware logger shared by the
// session client and the reference backend. The only implementation wraps
// log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "session restored", "user", u.Username)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs expected outcomes (a missing session, a rejected password).
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs recoverable failures such as an unconfirmed logout.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures that need operator attention, e.g. a rejected origin.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
