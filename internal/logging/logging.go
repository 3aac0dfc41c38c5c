// Package logging sets up the default slog logger. The bot logs json to
// stdout, the cli logs coloured text to stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// Setup installs and returns the default logger. An empty format falls
// back to fallback.
func Setup(format, fallback, level string) *slog.Logger {
	if format == "" {
		format = fallback
	}

	var w io.Writer = os.Stdout
	if format == FormatText {
		w = os.Stderr
	}

	logger := New(w, format, ParseLevel(level))
	slog.SetDefault(logger)
	return logger
}

func New(w io.Writer, format string, level slog.Level) *slog.Logger {
	if format == FormatText {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
