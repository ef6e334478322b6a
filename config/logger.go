package config

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a slog.Logger configured from GO_ENV and LOG_LEVEL.
// Production uses JSON handler; otherwise text handler.
// LOG_LEVEL may be: debug, info, warn, error (default: info).
// Logs go to stderr so they stay out of the interactive shell's output.
func NewLogger() *slog.Logger {
	return newLogger(os.Getenv("GO_ENV"), os.Getenv("LOG_LEVEL"), os.Stderr)
}

func newLogger(env, levelName string, w io.Writer) *slog.Logger {
	if env == "" {
		env = "development"
	}
	level := slog.LevelInfo
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if env == "production" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
