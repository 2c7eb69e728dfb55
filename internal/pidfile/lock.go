package pidfile

// Lock serializes supervisor operations that mutate the PID record and the
// process table. The monitor tick fired by the external scheduler and a
// manual stop/restart would otherwise interleave.
type Lock interface {
	// Acquire blocks until the lock is held.
	Acquire() (release func(), err error)
}

// NewLock returns an advisory file lock next to the given path.
func NewLock(path string) Lock { return platformLock(path) }

// NopLock never blocks; used by tests.
type NopLock struct{}

func (NopLock) Acquire() (func(), error) { return func() {}, nil }
