// Package logging is the structured logger handed to every gophauth
// component. The only implementation is SlogLogger.
package logging

import "context"

// Logger takes a message plus alternating key/value pairs:
//
//	log.Info(ctx, "login succeeded", "user_id", u.ID)
//
// Never pass passwords, password digests or session tokens as values.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that prefixes every record with args,
	// typically ("module", name).
	With(args ...any) Logger
}
