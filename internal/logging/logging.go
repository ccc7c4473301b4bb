// Package logging constructs the slog loggers used across flowrun.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options control logger construction.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // "text" (human-readable) or "json" (structured)
}

// New returns a configured logger writing to stderr; stdout is reserved
// for program output.
func New(opts Options) *slog.Logger {
	return NewWithWriter(opts, os.Stderr)
}

// NewWithWriter returns a configured logger writing to w.
func NewWithWriter(opts Options, w io.Writer) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	if strings.EqualFold(opts.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// ParseLevel converts a string log level to slog.Level.
// Unrecognized values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
