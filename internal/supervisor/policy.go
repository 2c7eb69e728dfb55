package supervisor

import "time"

// PollPolicy bounds a liveness polling loop: at most Attempts probes spaced
// Interval apart.
type PollPolicy struct {
	Attempts int
	Interval time.Duration
}

func (p PollPolicy) withDefaults(attempts int, interval time.Duration) PollPolicy {
	if p.Attempts <= 0 {
		p.Attempts = attempts
	}
	if p.Interval <= 0 {
		p.Interval = interval
	}
	return p
}

// Clock abstracts sleeping so tests run without real delays.
type Clock interface {
	Sleep(d time.Duration)
	Now() time.Time
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }
func (realClock) Now() time.Time        { return time.Now() }
