package ets2ctl

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	cfg "github.com/trucklab/ets2ctl/internal/config"
	"github.com/trucklab/ets2ctl/internal/history"
	"github.com/trucklab/ets2ctl/internal/metrics"
	"github.com/trucklab/ets2ctl/internal/schedule"
	iapi "github.com/trucklab/ets2ctl/internal/server"
	"github.com/trucklab/ets2ctl/internal/supervisor"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Spec = supervisor.Spec

type Status = supervisor.Status

type Options = supervisor.Options

type Event = supervisor.Event

type HistorySink = history.Sink

type ScheduleEntry = schedule.Entry

// Supervisor is a thin facade over internal/supervisor.Supervisor.
// It provides a stable public API for embedding.

type Supervisor struct{ inner *supervisor.Supervisor }

func New(spec Spec, opts Options) (*Supervisor, error) {
	inner, err := supervisor.New(spec, opts)
	if err != nil {
		return nil, err
	}
	return &Supervisor{inner: inner}, nil
}

func (s *Supervisor) Start() error           { return s.inner.Start() }
func (s *Supervisor) Stop() error            { return s.inner.Stop() }
func (s *Supervisor) Restart() error         { return s.inner.Restart() }
func (s *Supervisor) CheckAndRestart() error { return s.inner.CheckAndRestart() }
func (s *Supervisor) Status() Status         { return s.inner.Status() }

// Scheduler facade for the OS-level monitor registration.

type Scheduler = schedule.Scheduler

func NewScheduler() Scheduler { return schedule.New() }

func LoadConfig(path string) (*cfg.Config, error) {
	return cfg.Load(path)
}

// NewHTTPServer starts an HTTP server exposing the control API backed by the
// given supervisor.
func NewHTTPServer(addr, basePath string, s *Supervisor) (*http.Server, error) {
	return iapi.NewServer(addr, basePath, s.inner)
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// ServeMetrics starts an HTTP server on addr exposing /metrics using the
// default registry. It blocks in the caller goroutine.
func ServeMetrics(addr string) error { return metrics.Serve(addr) }
