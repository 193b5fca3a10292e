// Package observability holds the process logger shared by all qmvvm packages.
package observability

import (
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// stdout carries the bridge protocol, so logs go to stderr.
var (
	level  = new(slog.LevelVar)
	logger atomic.Pointer[slog.Logger]
)

func init() {
	level.Set(slog.LevelWarn)
	logger.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func Logger() *slog.Logger {
	return logger.Load()
}

// SetLogger replaces the process logger. A nil logger restores the default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	logger.Store(l)
}

// SetLevel adjusts the level of the default handler.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level,
// falling back to warn.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return Logger().With(kv...)
}

// Component returns a logger tagged with the given component name.
func Component(name string) *slog.Logger {
	return Logger().With("component", name)
}
