package internal

import (
	"io"
	"log/slog"
	"strings"
)

// ServiceName is attached to every log record outside development.
const ServiceName = "adboard"

// NewLogger builds the process logger. Development gets human-readable text;
// every other environment gets JSON tagged with the service and environment.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	if env == "development" {
		return slog.New(slog.NewTextHandler(w, opts))
	}

	return slog.New(slog.NewJSONHandler(w, opts)).With(
		"service", ServiceName,
		"env", env,
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
