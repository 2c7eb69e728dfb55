package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	serverStarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ets2ctl",
			Subsystem: "server",
			Name:      "starts_total",
			Help:      "Number of successful server starts.",
		}, []string{"name"},
	)
	serverStops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ets2ctl",
			Subsystem: "server",
			Name:      "stops_total",
			Help:      "Number of server stops (graceful or kill).",
		}, []string{"name"},
	)
	serverRestarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ets2ctl",
			Subsystem: "server",
			Name:      "restarts_total",
			Help:      "Number of server restarts.",
		}, []string{"name"},
	)
	monitorChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ets2ctl",
			Subsystem: "monitor",
			Name:      "checks_total",
			Help:      "Number of monitor ticks, by observed result.",
		}, []string{"name", "result"},
	)
	monitorRestarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ets2ctl",
			Subsystem: "monitor",
			Name:      "restarts_total",
			Help:      "Number of restarts triggered by the monitor.",
		}, []string{"name"},
	)
	serverUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ets2ctl",
			Subsystem: "server",
			Name:      "up",
			Help:      "Whether the managed server was live at the last check (1 or 0).",
		}, []string{"name"},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{serverStarts, serverStops, serverRestarts, monitorChecks, monitorRestarts, serverUp}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler serves Prometheus metrics for the DefaultGatherer. The caller wires
// the route and server.
func Handler() http.Handler { return promhttp.Handler() }

// Serve runs a standalone metrics endpoint at addr/metrics. It blocks until
// the listener fails.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// Helpers below no-op until Register has been called.

func IncStart(name string) {
	if regOK.Load() {
		serverStarts.WithLabelValues(name).Inc()
	}
}

func IncStop(name string) {
	if regOK.Load() {
		serverStops.WithLabelValues(name).Inc()
	}
}

func IncRestart(name string) {
	if regOK.Load() {
		serverRestarts.WithLabelValues(name).Inc()
	}
}

func IncMonitorCheck(name, result string) {
	if regOK.Load() {
		monitorChecks.WithLabelValues(name, result).Inc()
	}
}

func IncMonitorRestart(name string) {
	if regOK.Load() {
		monitorRestarts.WithLabelValues(name).Inc()
	}
}

func SetUp(name string, up bool) {
	if regOK.Load() {
		v := 0.0
		if up {
			v = 1.0
		}
		serverUp.WithLabelValues(name).Set(v)
	}
}
