// Package logger wraps zerolog.Logger for the CLI and the HTTP middleware.
// The validation core never logs.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger embeds zerolog.Logger so the full zerolog API is available.
type Logger struct {
	zerolog.Logger
}

// NewLogger returns a JSON logger on stdout tagged with role.
func NewLogger(role string) *Logger {
	return New(os.Stdout, role, zerolog.InfoLevel)
}

// New returns a JSON logger writing to w at the given minimum level.
func New(w io.Writer, role string, level zerolog.Level) *Logger {
	l := zerolog.New(w).Level(level).With().
		Str("role", role).
		Timestamp().
		Logger()
	return &Logger{l}
}

// ParseLevel maps a level name ("debug", "info", ...) to a zerolog level,
// falling back to info for unknown names.
func ParseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Nop returns a *Logger that discards all output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a logger inheriting the receiver's fields.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// FromRequest returns the logger attached to the request context.
func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}

// FromContext returns the logger attached to ctx, or zerolog's disabled
// logger when there is none.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
