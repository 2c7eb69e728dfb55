package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// Entry is one recurring registration invoking the monitor command. ID is a
// stable identifier used for idempotent upsert; installing the same ID twice
// must leave exactly one registration.
type Entry struct {
	ID            string
	PeriodMinutes int
	Command       string
}

func (e Entry) validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("schedule entry requires an id")
	}
	if e.PeriodMinutes <= 0 {
		return fmt.Errorf("schedule period must be > 0 minutes, got %d", e.PeriodMinutes)
	}
	if strings.TrimSpace(e.Command) == "" {
		return errors.New("schedule entry requires a command")
	}
	return nil
}

// Scheduler abstracts the OS recurring scheduler (crontab, Task Scheduler).
type Scheduler interface {
	// Upsert installs entry, replacing any previous registration with the
	// same ID. Repeated calls never duplicate.
	Upsert(e Entry) error
	// Installed reports whether a registration with the given ID exists.
	Installed(id string) (bool, error)
	// Remove deletes the registration with the given ID. Removing a missing
	// registration is not an error.
	Remove(id string) error
}

// New returns the scheduler for the current platform.
func New() Scheduler { return platformScheduler() }
