package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/trucklab/ets2ctl/internal/config"
	"github.com/trucklab/ets2ctl/internal/history"
	"github.com/trucklab/ets2ctl/internal/history/factory"
	"github.com/trucklab/ets2ctl/internal/logger"
	"github.com/trucklab/ets2ctl/internal/metrics"
	"github.com/trucklab/ets2ctl/internal/schedule"
	"github.com/trucklab/ets2ctl/internal/server"
	"github.com/trucklab/ets2ctl/internal/supervisor"

	"github.com/prometheus/client_golang/prometheus"
)

// command binds the subcommand handlers to the global flags.
type command struct {
	global *GlobalFlags
}

// runtimeCtx is everything a one-shot operation needs, built from the config
// file and torn down when the operation finishes.
type runtimeCtx struct {
	cfg   *config.Config
	sup   *supervisor.Supervisor
	log   *slog.Logger
	sinks []history.Sink
	close []io.Closer
}

func (c *command) setup() (*runtimeCtx, error) {
	if c.global.ConfigPath == "" {
		return nil, errors.New("config file required, use --config=config.toml")
	}
	cfg, err := config.Load(c.global.ConfigPath)
	if err != nil {
		return nil, err
	}

	rt := &runtimeCtx{cfg: cfg}
	log, logCloser := logger.New(cfg.Log)
	rt.log = log
	if logCloser != nil {
		rt.close = append(rt.close, logCloser)
	}

	if cfg.History != nil {
		for _, dsn := range cfg.History.DSNs {
			sink, err := factory.NewSinkFromDSN(dsn)
			if err != nil {
				log.Warn("history sink disabled", "dsn", dsn, "error", err)
				continue
			}
			rt.sinks = append(rt.sinks, sink)
			rt.close = append(rt.close, sink)
		}
	}

	sup, err := supervisor.New(cfg.Server, supervisor.Options{
		Logger:      log,
		StartupWait: cfg.Supervise.StartupWait,
		SettleDelay: cfg.Supervise.SettleDelay,
		StopPoll: supervisor.PollPolicy{
			Attempts: cfg.Supervise.StopPollAttempts,
			Interval: cfg.Supervise.StopPollInterval,
		},
		OnEvent: rt.consumeEvent,
	})
	if err != nil {
		rt.teardown()
		return nil, err
	}
	rt.sup = sup
	return rt, nil
}

func (rt *runtimeCtx) teardown() {
	for _, c := range rt.close {
		_ = c.Close()
	}
}

// consumeEvent fans a supervisor event out to metrics and history sinks.
// Sink failures are logged, never propagated.
func (rt *runtimeCtx) consumeEvent(e supervisor.Event) {
	name := rt.cfg.Server.Name
	switch e.Op {
	case "start":
		if e.OK {
			metrics.IncStart(name)
		}
	case "stop":
		if e.OK {
			metrics.IncStop(name)
		}
	case "restart":
		if e.OK {
			metrics.IncRestart(name)
		}
	case "check":
		result := "down"
		if e.OK {
			result = "up"
			if e.Detail == "restarted" {
				metrics.IncMonitorRestart(name)
			}
		}
		metrics.IncMonitorCheck(name, result)
		metrics.SetUp(name, e.OK)
	}

	evt := history.Event{
		Name:       name,
		Op:         e.Op,
		OK:         e.OK,
		PID:        e.PID,
		Detail:     e.Detail,
		OccurredAt: e.At,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, s := range rt.sinks {
		if err := s.Send(ctx, evt); err != nil {
			rt.log.Warn("history sink write failed", "op", e.Op, "error", err)
		}
	}
}

func (c *command) Start() error {
	rt, err := c.setup()
	if err != nil {
		return err
	}
	defer rt.teardown()
	return rt.sup.Start()
}

func (c *command) Stop() error {
	rt, err := c.setup()
	if err != nil {
		return err
	}
	defer rt.teardown()
	return rt.sup.Stop()
}

func (c *command) Restart() error {
	rt, err := c.setup()
	if err != nil {
		return err
	}
	defer rt.teardown()
	return rt.sup.Restart()
}

func (c *command) Monitor() error {
	rt, err := c.setup()
	if err != nil {
		return err
	}
	defer rt.teardown()
	return rt.sup.CheckAndRestart()
}

func (c *command) Status() error {
	rt, err := c.setup()
	if err != nil {
		return err
	}
	defer rt.teardown()
	return printJSON(rt.sup.Status())
}

func (c *command) InstallMonitor(f InstallMonitorFlags) error {
	rt, err := c.setup()
	if err != nil {
		return err
	}
	defer rt.teardown()

	every := f.EveryMinutes
	if every <= 0 {
		every = int(math.Ceil(rt.cfg.Supervise.MonitorEvery.Minutes()))
	}
	entry, err := monitorEntry(rt.cfg.Server.Name, c.global.ConfigPath, every)
	if err != nil {
		return err
	}
	if err := schedule.New().Upsert(entry); err != nil {
		return fmt.Errorf("%w: %v", supervisor.ErrScheduleInstall, err)
	}
	rt.log.Info("monitor schedule installed", "id", entry.ID, "every_minutes", entry.PeriodMinutes)
	return nil
}

func (c *command) UninstallMonitor() error {
	rt, err := c.setup()
	if err != nil {
		return err
	}
	defer rt.teardown()

	if err := schedule.New().Remove(rt.cfg.Server.Name); err != nil {
		return err
	}
	rt.log.Info("monitor schedule removed", "id", rt.cfg.Server.Name)
	return nil
}

// monitorEntry builds the scheduler registration invoking this binary's
// monitor subcommand with an absolute config path.
func monitorEntry(name, configPath string, everyMinutes int) (schedule.Entry, error) {
	exe, err := os.Executable()
	if err != nil {
		return schedule.Entry{}, err
	}
	absCfg, err := filepath.Abs(configPath)
	if err != nil {
		return schedule.Entry{}, err
	}
	// Both paths are quoted so installs under directories with spaces
	// survive the scheduler's word splitting.
	return schedule.Entry{
		ID:            name,
		PeriodMinutes: everyMinutes,
		Command:       fmt.Sprintf("%q --config %q monitor", exe, absCfg),
	}, nil
}

func (c *command) Serve(f ServeFlags) error {
	rt, err := c.setup()
	if err != nil {
		return err
	}
	defer rt.teardown()
	cfg := rt.cfg

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
			rt.log.Warn("metrics registration failed", "error", err)
		}
		if cfg.Metrics.Listen != "" {
			go serveMetrics(cfg.Metrics.Listen, rt.log)
		}
	}

	ticker, err := schedule.NewTicker(
		fmt.Sprintf("@every %s", cfg.Supervise.MonitorEvery),
		func() { _ = rt.sup.CheckAndRestart() },
	)
	if err != nil {
		return err
	}
	if err := ticker.Start(); err != nil {
		return err
	}
	defer ticker.Stop()
	rt.log.Info("monitor ticker started", "every", cfg.Supervise.MonitorEvery)

	var httpServer interface{ Close() error }
	listen := f.Listen
	basePath := ""
	if cfg.HTTP != nil {
		if listen == "" {
			listen = cfg.HTTP.Listen
		}
		basePath = cfg.HTTP.BasePath
	}
	if listen != "" {
		srv, err := server.NewServer(listen, basePath, rt.sup)
		if err != nil {
			return err
		}
		httpServer = srv
		rt.log.Info("http server listening", "addr", listen, "base_path", basePath)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	rt.log.Info("shutting down")
	if httpServer != nil {
		return httpServer.Close()
	}
	return nil
}

func serveMetrics(addr string, log *slog.Logger) {
	if err := metrics.Serve(addr); err != nil {
		log.Error("metrics server error", "error", err)
	}
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
