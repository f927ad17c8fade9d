// Package logger provides structured logging configuration using log/slog.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Config holds logger configuration.
type Config struct {
	Level  slog.Level
	Format string // "text" or "json"
}

// NewLogger creates a configured slog.Logger.
func NewLogger(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.Level,
		// Add a source location for debug level
		AddSource: cfg.Level <= slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// ConfigFrom builds a logger configuration from level and format names.
// The DISCOSAUR_LOG_LEVEL environment variable, when set, overrides the
// level. Valid levels: DEBUG, INFO, WARN, WARNING, ERROR; default INFO.
func ConfigFrom(level, format string) Config {
	if envLevel := os.Getenv("DISCOSAUR_LOG_LEVEL"); envLevel != "" {
		level = envLevel
	}
	return Config{
		Level:  parseLevel(level),
		Format: format,
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
