package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestColorTextHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewColorTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false))

	log.Debug("d")
	log.Info("i")
	log.Log(context.Background(), LevelSuccess, "s")
	log.Warn("w")
	log.Error("e")

	out := buf.String()
	for _, tag := range []string{"DEBUG", "INFO", "SUCCESS", "WARN", "ERROR"} {
		if !strings.Contains(out, tag) {
			t.Fatalf("output missing %s tag:\n%s", tag, out)
		}
	}
}

func TestNewWritesOperatorLog(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ets2ctl.log")
	log, closer := New(Config{File: file, Level: "info"})
	if closer == nil {
		t.Fatalf("closer is nil with a file configured")
	}

	log.Info("server started", "pid", 42)
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "server started") || !strings.Contains(string(b), "pid=42") {
		t.Fatalf("log content: %s", b)
	}
}

func TestNewWithoutFile(t *testing.T) {
	log, closer := New(Config{})
	if log == nil {
		t.Fatalf("logger is nil")
	}
	if closer != nil {
		t.Fatalf("closer should be nil without a file")
	}
}

func TestLevelFiltersFileOutput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ets2ctl.log")
	log, closer := New(Config{File: file, Level: "warn"})

	log.Info("quiet")
	log.Warn("loud")
	_ = closer.Close()

	b, _ := os.ReadFile(file)
	if strings.Contains(string(b), "quiet") {
		t.Fatalf("info line passed a warn filter: %s", b)
	}
	if !strings.Contains(string(b), "loud") {
		t.Fatalf("warn line missing: %s", b)
	}
}

func TestConfigWriterDefaults(t *testing.T) {
	if (Config{}).Writer() != nil {
		t.Fatalf("writer without file should be nil")
	}
	w := Config{File: filepath.Join(t.TempDir(), "x.log")}.Writer()
	if w == nil {
		t.Fatalf("writer with file is nil")
	}
	_ = w.Close()
}
