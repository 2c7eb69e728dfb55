package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation parameters (lumberjack semantics).
const (
	DefaultMaxSizeMB  = 10 // MB
	DefaultMaxBackups = 3  // number of backup files
	DefaultMaxAgeDays = 7  // days
)

// Config describes the operator log destination. The monitor tick appends to
// File so that operators can follow restarts after the fact; console output
// goes to stderr regardless.
type Config struct {
	File       string `toml:"file" mapstructure:"file"`
	Level      string `toml:"level" mapstructure:"level"`
	MaxSizeMB  int    `toml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `toml:"compress" mapstructure:"compress"`
}

// Writer returns a rolling io.WriteCloser for the operator log file, or nil
// when no file is configured.
func (c Config) Writer() io.WriteCloser {
	if c.File == "" {
		return nil
	}
	return &lj.Logger{
		Filename:   c.File,
		MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
		MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   c.Compress,
	}
}

// New builds the supervisor logger: colored text on stderr, plus the rolling
// file when configured. The returned closer flushes the file writer and may
// be nil.
func New(c Config) (*slog.Logger, io.Closer) {
	level := parseLevel(c.Level)
	console := NewColorTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}, true)
	w := c.Writer()
	if w == nil {
		return slog.New(console), nil
	}
	file := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(teeHandler{console, file}), w
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

func valOr(v int, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
