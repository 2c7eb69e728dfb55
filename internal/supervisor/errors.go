package supervisor

import "errors"

// Failure taxonomy. Managed-process failures are reported to the caller and
// logged; they never terminate the supervisor itself. Only ErrExecutableMissing
// during an explicit Start is treated as fatal misconfiguration by the CLI.
var (
	ErrExecutableMissing     = errors.New("server executable missing or not executable")
	ErrSpawnFailed           = errors.New("failed to spawn server process")
	ErrTerminatedImmediately = errors.New("server process terminated immediately after start")
	ErrSignalFailed          = errors.New("failed to signal server process")
	ErrStillAlive            = errors.New("server process still alive after force kill")
	ErrPidRecordWrite        = errors.New("failed to write pid record")
	ErrScheduleInstall       = errors.New("failed to install monitor schedule")

	// ErrAlreadyRunning is the benign outcome of Start finding a live
	// instance; the CLI maps it to its own stable exit code.
	ErrAlreadyRunning = errors.New("server already running")
)
