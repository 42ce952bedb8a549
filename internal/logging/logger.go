package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the logging surface the library packages depend on. A
// *slog.Logger satisfies it; tests pass Discard().
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var _ Logger = (*slog.Logger)(nil)

// New returns a text logger writing to w, os.Stderr when nil. Stdout is
// reserved for the stdio transport and for CLI output.
func New(w io.Writer, debug bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
