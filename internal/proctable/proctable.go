package proctable

// SignalKind selects between graceful termination and forced kill.
type SignalKind int

const (
	// SignalTerm asks the process to shut down (SIGTERM / taskkill).
	SignalTerm SignalKind = iota
	// SignalKill forcefully terminates the process (SIGKILL / taskkill /F).
	SignalKill
)

func (k SignalKind) String() string {
	if k == SignalKill {
		return "kill"
	}
	return "term"
}

// Entry is one row of the OS process table.
type Entry struct {
	PID     int
	Command string // executable name or full command line, platform dependent
}

// Table abstracts the OS process table. Implementations must be safe for
// concurrent use. All supervisor logic is written against this interface.
type Table interface {
	// ListByName returns processes whose command line contains pattern,
	// excluding the calling process itself. Order is unspecified except that
	// it is stable for a single snapshot.
	ListByName(pattern string) ([]Entry, error)
	// IsAlive reports whether pid refers to a live (non-zombie) process.
	IsAlive(pid int) bool
	// Signal delivers the given signal kind to pid.
	Signal(pid int, kind SignalKind) error
}

// New returns the process table implementation for the current platform.
func New() Table { return platformTable() }
