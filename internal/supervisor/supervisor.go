package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trucklab/ets2ctl/internal/logger"
	"github.com/trucklab/ets2ctl/internal/pidfile"
	"github.com/trucklab/ets2ctl/internal/proctable"
)

// Default timing, matching the original operational behavior: ~2s startup
// re-check, 10 x 2s graceful stop polling, ~5s settle between stop and start.
const (
	DefaultStartupWait      = 2 * time.Second
	DefaultSettleDelay      = 5 * time.Second
	DefaultStopPollAttempts = 10
	DefaultStopPollInterval = 2 * time.Second
)

// Event describes one completed supervisor operation, for history sinks and
// metrics.
type Event struct {
	Op     string    `json:"op"` // start, stop, restart, check
	OK     bool      `json:"ok"`
	PID    int       `json:"pid,omitempty"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Options carries the capability implementations and timing policy. Zero
// fields get production defaults.
type Options struct {
	Table       proctable.Table
	PIDs        pidfile.Store
	Launcher    Launcher
	Lock        pidfile.Lock
	Clock       Clock
	Logger      *slog.Logger
	StartupWait time.Duration
	SettleDelay time.Duration
	StopPoll    PollPolicy
	// OnEvent is invoked after each operation; failures in the consumer must
	// not affect the operation result.
	OnEvent func(Event)
}

// Supervisor ensures at most one instance of the managed server is running.
// Operations are synchronous and serialized by an OS file lock so a monitor
// tick cannot interleave with a manual stop or restart.
type Supervisor struct {
	spec        Spec
	table       proctable.Table
	pids        pidfile.Store
	launcher    Launcher
	lock        pidfile.Lock
	clock       Clock
	log         *slog.Logger
	startupWait time.Duration
	settleDelay time.Duration
	stopPoll    PollPolicy
	onEvent     func(Event)
}

func New(spec Spec, opts Options) (*Supervisor, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	s := &Supervisor{
		spec:        spec,
		table:       opts.Table,
		pids:        opts.PIDs,
		launcher:    opts.Launcher,
		lock:        opts.Lock,
		clock:       opts.Clock,
		log:         opts.Logger,
		startupWait: opts.StartupWait,
		settleDelay: opts.SettleDelay,
		stopPoll:    opts.StopPoll.withDefaults(DefaultStopPollAttempts, DefaultStopPollInterval),
		onEvent:     opts.OnEvent,
	}
	if s.table == nil {
		s.table = proctable.New()
	}
	if s.pids == nil {
		s.pids = pidfile.NewFileStore(spec.PIDFile)
	}
	if s.launcher == nil {
		s.launcher = newPlatformLauncher()
	}
	if s.lock == nil {
		s.lock = pidfile.NewLock(spec.PIDFile + ".lock")
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.startupWait <= 0 {
		s.startupWait = DefaultStartupWait
	}
	if s.settleDelay <= 0 {
		s.settleDelay = DefaultSettleDelay
	}
	return s, nil
}

func (s *Supervisor) Spec() Spec { return s.spec }

// Start launches the server if no live instance matches the pattern.
// It declines with ErrAlreadyRunning instead of spawning a second instance.
func (s *Supervisor) Start() error {
	release, err := s.lock.Acquire()
	if err != nil {
		return err
	}
	defer release()
	return s.start()
}

func (s *Supervisor) start() error {
	if err := s.spec.checkExecutable(); err != nil {
		s.emit(Event{Op: "start", OK: false, Detail: err.Error()})
		return err
	}
	if live := s.listLive(); len(live) > 0 {
		s.log.Info("server already running", "name", s.spec.Name, "pid", live[0].PID)
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, live[0].PID)
	}
	// Stale record from a crashed instance; the process table is the truth.
	_ = s.pids.Remove()

	pid, err := s.launcher.Launch(s.spec)
	if err != nil {
		s.emit(Event{Op: "start", OK: false, Detail: err.Error()})
		return fmt.Errorf("%w: %v", ErrSpawnFailed, err)
	}
	if err := s.pids.Write(pid); err != nil {
		// Non-fatal: the pattern scan still finds the server, but stop will
		// have to discover it.
		s.log.Warn("pid record write failed", "pid", pid, "error",
			fmt.Errorf("%w: %v", ErrPidRecordWrite, err))
	}
	s.clock.Sleep(s.startupWait)
	if !s.table.IsAlive(pid) {
		_ = s.pids.Remove()
		s.emit(Event{Op: "start", OK: false, PID: pid, Detail: "terminated immediately"})
		return ErrTerminatedImmediately
	}
	s.log.Log(context.Background(), logger.LevelSuccess, "server started", "name", s.spec.Name, "pid", pid)
	s.emit(Event{Op: "start", OK: true, PID: pid})
	return nil
}

// Stop terminates the running server: graceful signal, bounded polling,
// force kill, then a sweep over any remaining pattern matches. The PID
// record is removed regardless of outcome. Nothing running is a no-op
// success.
func (s *Supervisor) Stop() error {
	release, err := s.lock.Acquire()
	if err != nil {
		return err
	}
	defer release()
	return s.stop()
}

func (s *Supervisor) stop() error {
	target := s.findTarget()
	if target == 0 {
		_ = s.pids.Remove()
		s.log.Info("server not running, nothing to stop", "name", s.spec.Name)
		s.emit(Event{Op: "stop", OK: true, Detail: "not running"})
		return nil
	}

	if err := s.table.Signal(target, proctable.SignalTerm); err != nil {
		s.log.Warn("graceful signal failed", "pid", target, "error",
			fmt.Errorf("%w: %v", ErrSignalFailed, err))
	}
	alive := true
	for i := 0; i < s.stopPoll.Attempts; i++ {
		if !s.table.IsAlive(target) {
			alive = false
			break
		}
		s.clock.Sleep(s.stopPoll.Interval)
	}
	if alive {
		s.log.Warn("server did not exit gracefully, force killing", "pid", target)
		_ = s.table.Signal(target, proctable.SignalKill)
	}

	// Sweep: a double-launch bug can leave multiple instances behind.
	for _, e := range s.listLive() {
		_ = s.table.Signal(e.PID, proctable.SignalKill)
	}
	s.clock.Sleep(s.stopPoll.Interval)

	remaining := s.listLive()
	_ = s.pids.Remove()
	if len(remaining) > 0 {
		s.emit(Event{Op: "stop", OK: false, PID: remaining[0].PID, Detail: "still alive after force kill"})
		return fmt.Errorf("%w (pid %d), manual intervention may be required",
			ErrStillAlive, remaining[0].PID)
	}
	s.log.Log(context.Background(), logger.LevelSuccess, "server stopped", "name", s.spec.Name, "pid", target)
	s.emit(Event{Op: "stop", OK: true, PID: target})
	return nil
}

// Restart is Stop, a settle delay, then Start. A stop failure is surfaced in
// the log and the emitted event but does not abort the start attempt; the
// restart result is the start result.
func (s *Supervisor) Restart() error {
	release, err := s.lock.Acquire()
	if err != nil {
		return err
	}
	defer release()
	return s.restart()
}

func (s *Supervisor) restart() error {
	stopErr := s.stop()
	if stopErr != nil {
		s.log.Warn("stop failed during restart, starting anyway", "error", stopErr)
	}
	s.clock.Sleep(s.settleDelay)
	if err := s.start(); err != nil {
		s.emit(Event{Op: "restart", OK: false, Detail: err.Error()})
		return err
	}
	live := s.listLive()
	if len(live) == 0 {
		s.emit(Event{Op: "restart", OK: false, Detail: "not found running after start"})
		return ErrTerminatedImmediately
	}
	detail := ""
	if stopErr != nil {
		detail = "stop failed: " + stopErr.Error()
	}
	s.emit(Event{Op: "restart", OK: true, PID: live[0].PID, Detail: detail})
	return nil
}

// CheckAndRestart is one monitor tick. A live pattern match means healthy; a
// lost or stale PID record is repaired in place without restarting. Absence
// triggers Restart followed by a settle delay and a liveness re-check.
func (s *Supervisor) CheckAndRestart() error {
	release, err := s.lock.Acquire()
	if err != nil {
		return err
	}
	defer release()

	live := s.listLive()
	if len(live) > 0 {
		if pid, err := s.pids.Read(); err != nil || !containsPID(live, pid) {
			// Record lost or pointing at a reused PID; adopt the live match.
			if werr := s.pids.Write(live[0].PID); werr != nil {
				s.log.Warn("pid record repair failed", "pid", live[0].PID, "error", werr)
			} else {
				s.log.Info("pid record repaired", "name", s.spec.Name, "pid", live[0].PID)
			}
		}
		s.log.Debug("heartbeat: server running", "name", s.spec.Name, "pid", live[0].PID)
		s.emit(Event{Op: "check", OK: true, PID: live[0].PID})
		return nil
	}

	s.log.Warn("server not running, restarting", "name", s.spec.Name)
	restartErr := s.restart()
	s.clock.Sleep(s.settleDelay)
	live = s.listLive()
	if len(live) == 0 {
		err := restartErr
		if err == nil {
			err = ErrTerminatedImmediately
		}
		s.log.Error("monitor restart failed", "name", s.spec.Name, "error", err)
		s.emit(Event{Op: "check", OK: false, Detail: err.Error()})
		return err
	}
	s.log.Log(context.Background(), logger.LevelSuccess, "monitor restarted server", "name", s.spec.Name, "pid", live[0].PID)
	s.emit(Event{Op: "check", OK: true, PID: live[0].PID, Detail: "restarted"})
	return nil
}

// Status reports the observed state without mutating anything.
func (s *Supervisor) Status() Status {
	st := Status{Name: s.spec.Name, CheckedAt: s.clock.Now()}
	live := s.listLive()
	if pid, err := s.pids.Read(); err == nil && containsPID(live, pid) {
		st.Running, st.PID, st.DetectedBy = true, pid, "pidfile"
		return st
	}
	if len(live) > 0 {
		st.Running, st.PID, st.DetectedBy = true, live[0].PID, "pattern"
	}
	return st
}

// findTarget picks the stop target: a validated PID record wins, otherwise
// the first pattern match.
func (s *Supervisor) findTarget() int {
	live := s.listLive()
	if pid, err := s.pids.Read(); err == nil && containsPID(live, pid) {
		return pid
	}
	if len(live) > 0 {
		return live[0].PID
	}
	return 0
}

func (s *Supervisor) listLive() []proctable.Entry {
	live, err := s.table.ListByName(s.spec.Pattern)
	if err != nil {
		s.log.Warn("process table scan failed", "pattern", s.spec.Pattern, "error", err)
		return nil
	}
	return live
}

func (s *Supervisor) emit(e Event) {
	if s.onEvent == nil {
		return
	}
	e.At = s.clock.Now()
	s.onEvent(e)
}

func containsPID(entries []proctable.Entry, pid int) bool {
	for _, e := range entries {
		if e.PID == pid {
			return true
		}
	}
	return false
}
