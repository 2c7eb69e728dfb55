package schedule

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// ParseEvery parses schedules of the form "@every <duration>" (e.g.
// "@every 5m"), the format used by the serve-mode monitor ticker.
func ParseEvery(expr string) (time.Duration, error) {
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "@every ") {
		return 0, fmt.Errorf("unsupported schedule: %s (only @every <duration> supported)", expr)
	}
	d, err := time.ParseDuration(strings.TrimSpace(strings.TrimPrefix(expr, "@every ")))
	if err != nil {
		return 0, fmt.Errorf("invalid @every duration: %w", err)
	}
	if d <= 0 {
		return 0, errors.New("@every duration must be > 0")
	}
	return d, nil
}

// Ticker drives the monitor check in serve mode. Ticks never overlap: if a
// check (including a restart with its settle delays) is still running when
// the next tick fires, that tick is skipped.
type Ticker struct {
	period  time.Duration
	tick    func()
	quit    chan struct{}
	done    chan struct{}
	running atomic.Bool
}

func NewTicker(schedule string, tick func()) (*Ticker, error) {
	d, err := ParseEvery(schedule)
	if err != nil {
		return nil, err
	}
	return &Ticker{period: d, tick: tick}, nil
}

func (t *Ticker) Start() error {
	if t.quit != nil {
		return errors.New("ticker already started")
	}
	t.quit = make(chan struct{})
	t.done = make(chan struct{})
	go t.run()
	return nil
}

func (t *Ticker) run() {
	defer close(t.done)
	tk := time.NewTicker(t.period)
	defer tk.Stop()
	for {
		select {
		case <-t.quit:
			return
		case <-tk.C:
			if !t.running.CompareAndSwap(false, true) {
				continue
			}
			go func() {
				defer t.running.Store(false)
				t.tick()
			}()
		}
	}
}

// Stop cancels future ticks. A tick already in flight runs to completion.
func (t *Ticker) Stop() {
	if t.quit == nil {
		return
	}
	select {
	case <-t.quit:
	default:
		close(t.quit)
	}
	<-t.done
}
