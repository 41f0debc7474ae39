package app

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns the application logger. LOG_FORMAT selects the
// handler: "json" for machine-readable output with source locations,
// "pretty" (the development default) for compact text without them,
// anything else for text with source locations.
func NewLogger(cfg *Config) *slog.Logger {
	format := ""
	if cfg != nil {
		format = cfg.LogFormat
	}
	return newLogger(os.Stdout, format)
}

func newLogger(w io.Writer, format string) *slog.Logger {
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{AddSource: true}))
	case "pretty":
		return slog.New(slog.NewTextHandler(w, nil))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{AddSource: true}))
	}
}
