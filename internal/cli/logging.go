package cli

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"sunit/internal/config"
)

// NewLogger builds the file logger of a command run. Relative log paths are
// resolved against the project path. The returned closer releases the file.
//
// By default it logs at the configured level; verbose means Debug.
func NewLogger(cfg *config.Config) (*slog.Logger, io.Closer) {
	logPath := cfg.Log.Filename
	if strings.TrimSpace(logPath) == "" {
		logPath = config.DefaultLogFilename
	}
	if !filepath.IsAbs(logPath) {
		logPath = filepath.Join(cfg.ProjectPath, logPath)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     cfg.LogLevel(),
	})
	return slog.New(handler), logWriter
}
