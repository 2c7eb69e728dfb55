package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/trucklab/ets2ctl/internal/history"
)

func TestSQLiteDSNVariants(t *testing.T) {
	dir := t.TempDir()
	for _, dsn := range []string{
		":memory:",
		"sqlite://:memory:",
		filepath.Join(dir, "a.db"),
		"sqlite://" + filepath.Join(dir, "b.db"),
	} {
		sink, err := NewSinkFromDSN(dsn)
		if err != nil {
			t.Fatalf("NewSinkFromDSN(%q): %v", dsn, err)
		}
		e := history.Event{Name: "ets2-server", Op: "start", OK: true, PID: 1, OccurredAt: time.Now().UTC()}
		if err := sink.Send(context.Background(), e); err != nil {
			t.Fatalf("send via %q: %v", dsn, err)
		}
		_ = sink.Close()
	}
}

func TestRejectsBadDSNs(t *testing.T) {
	for _, dsn := range []string{"", "   ", "mysql://localhost/db", "redis://localhost:6379"} {
		if _, err := NewSinkFromDSN(dsn); err == nil {
			t.Fatalf("NewSinkFromDSN(%q): expected error", dsn)
		}
	}
}

func TestClickHouseDSNRequiresHost(t *testing.T) {
	if _, err := NewSinkFromDSN("clickhouse://"); err == nil {
		t.Fatalf("expected error for clickhouse DSN without host")
	}
}
