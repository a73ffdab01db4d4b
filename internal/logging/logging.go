// Package logging builds the colorized slog logger used by the CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// DefaultLevel keeps normal command output free of log lines.
const DefaultLevel = slog.LevelWarn

// ParseLevel converts a textual log level into a slog.Level. Unknown values
// fall back to DefaultLevel.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return DefaultLevel
	}
}

// NewLogger constructs a slog.Logger with a tint handler at the given level.
// A nil writer means stderr.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	})

	return slog.New(handler)
}
