package ets2ctl

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func testSpec(t *testing.T) Spec {
	t.Helper()
	dir := t.TempDir()
	exe := filepath.Join(dir, "eurotrucks2_server")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write exe: %v", err)
	}
	return Spec{
		Name:       "ets2-server",
		Executable: exe,
		Pattern:    "ets2ctl-facade-test-pattern",
		PIDFile:    filepath.Join(dir, "server.pid"),
	}
}

func TestFacadeStatus(t *testing.T) {
	s, err := New(testSpec(t), Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	st := s.Status()
	if st.Running {
		t.Fatalf("unexpected running: %+v", st)
	}
	if st.Name != "ets2-server" {
		t.Fatalf("name = %q", st.Name)
	}
}

func TestFacadeRejectsInvalidSpec(t *testing.T) {
	if _, err := New(Spec{}, Options{}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadConfigFacade(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[server]
executable = "/opt/ets2/bin/eurotrucks2_server"
pattern = "eurotrucks2_server"
pidfile = "/var/run/ets2/server.pid"

[supervise]
monitor_every = "10m"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Supervise.MonitorEvery != 10*time.Minute {
		t.Fatalf("monitor_every = %v", cfg.Supervise.MonitorEvery)
	}
}

func TestRegisterMetricsFacade(t *testing.T) {
	if err := RegisterMetrics(prometheus.NewRegistry()); err != nil {
		t.Fatalf("register: %v", err)
	}
}

func TestSchedulerFacade(t *testing.T) {
	if NewScheduler() == nil {
		t.Fatalf("nil scheduler")
	}
}
