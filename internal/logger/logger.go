// internal/logger/logger.go
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"discord-community-bot/internal/config"
)

// New builds a slog logger writing to stdout, and additionally to a rotating
// log file when cfg.File is set.
func New(cfg config.LogConfig) *slog.Logger {
	var w io.Writer = os.Stdout
	noColor := false

	if cfg.File != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,  // megabytes
			MaxBackups: cfg.MaxBackups, // files
			MaxAge:     cfg.MaxAgeDays, // days
			Compress:   true,
		})
		noColor = true
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      parseLevel(cfg.Level),
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
