package metrics

import (
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMain(m *testing.M) {
	// Collectors register once, in the default registry, so the promhttp
	// handler exposes them.
	if err := Register(prometheus.DefaultRegisterer); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestRegisterIdempotent(t *testing.T) {
	if err := Register(prometheus.DefaultRegisterer); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	// A different registry after the first success is a no-op, not a
	// duplicate registration error.
	if err := Register(prometheus.NewRegistry()); err != nil {
		t.Fatalf("register other: %v", err)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	IncStart("ets2-server")
	IncStop("ets2-server")
	IncRestart("ets2-server")
	IncMonitorCheck("ets2-server", "up")
	IncMonitorCheck("ets2-server", "down")
	IncMonitorRestart("ets2-server")
	SetUp("ets2-server", true)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, metric := range []string{
		"ets2ctl_server_starts_total",
		"ets2ctl_server_stops_total",
		"ets2ctl_server_restarts_total",
		"ets2ctl_monitor_checks_total",
		"ets2ctl_monitor_restarts_total",
		"ets2ctl_server_up",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("metric %s missing from output", metric)
		}
	}
	if !strings.Contains(body, `ets2ctl_server_up{name="ets2-server"} 1`) {
		t.Fatalf("gauge value missing:\n%s", body)
	}
}
