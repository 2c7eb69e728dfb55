package history

import (
	"context"
	"time"
)

// Event is one supervisor operation outcome exported to audit sinks.
type Event struct {
	Name       string    `json:"name"` // managed server name
	Op         string    `json:"op"`   // start, stop, restart, check
	OK         bool      `json:"ok"`
	PID        int       `json:"pid,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Sink is a destination for supervisor events. Implementations must be safe
// for concurrent use. Send failures are logged by the caller and never fail
// the originating operation.
type Sink interface {
	Send(ctx context.Context, e Event) error
	Close() error
}
