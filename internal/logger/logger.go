package logger

import (
	"io"
	"log/slog"
	"strings"

	"wall-service/internal/config"
)

// ParseLevel maps a LOG_LEVEL value to a slog level, def when unknown
func ParseLevel(s string, def slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return def
	}
}

// New builds a logger writing to w. Format "json" selects the JSON handler,
// anything else the text handler.
func New(w io.Writer, cfg config.LogConfig, app string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level, slog.LevelInfo)}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With(slog.String("app", app))
}

// Setup installs New as the default logger
func Setup(w io.Writer, cfg config.LogConfig, app string) *slog.Logger {
	l := New(w, cfg, app)
	slog.SetDefault(l)
	return l
}
