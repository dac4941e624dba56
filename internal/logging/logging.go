// Package logging configures structured logging. Library packages log
// through an injected *slog.Logger; this package builds those loggers.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup creates a JSON slog logger writing to w at the given level.
// A nil writer defaults to stderr.
func Setup(level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler)
}

// SetupDefault configures the process-wide default logger.
func SetupDefault(level string) *slog.Logger {
	logger := Setup(level, os.Stderr)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel converts a string level to slog.Level. Unknown levels
// default to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
