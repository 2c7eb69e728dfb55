package supervisor

import "os"

// Launcher spawns the managed process detached from the caller's session and
// returns its PID. Tests substitute a fake.
type Launcher interface {
	Launch(spec Spec) (int, error)
}

func openServerOutput(spec Spec) (*os.File, error) {
	if spec.OutputLog == "" {
		return os.OpenFile(os.DevNull, os.O_RDWR, 0)
	}
	return os.OpenFile(spec.OutputLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
}
