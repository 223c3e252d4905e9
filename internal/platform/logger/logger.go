package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. Level defaults to info; set REVLOOP_LOG_LEVEL
// to debug/warn/error to override.
func New() *slog.Logger {
	level := slog.LevelInfo
	switch os.Getenv("REVLOOP_LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
