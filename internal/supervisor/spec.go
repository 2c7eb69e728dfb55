package supervisor

import (
	"errors"
	"os"
	"runtime"
	"time"
)

// Spec describes the managed server process. It is built once from static
// configuration and treated as immutable for the life of the supervisor.
type Spec struct {
	Name       string   `json:"name" mapstructure:"name"`
	Executable string   `json:"executable" mapstructure:"executable"`
	Args       []string `json:"args" mapstructure:"args"`
	WorkDir    string   `json:"workdir" mapstructure:"workdir"`
	// Pattern is the substring matched against the process table for
	// discovery, e.g. "eurotrucks2_server".
	Pattern string `json:"pattern" mapstructure:"pattern"`
	PIDFile string `json:"pidfile" mapstructure:"pidfile"`
	// OutputLog receives the server's combined stdout/stderr. Empty means
	// /dev/null; the detached child needs a real file, so rotation is left
	// to the OS (logrotate), not lumberjack.
	OutputLog string `json:"output_log" mapstructure:"output_log"`
}

// Validate checks static configuration. A missing executable path is
// misconfiguration, not a runtime failure.
func (s Spec) Validate() error {
	if s.Executable == "" {
		return errors.New("executable not configured")
	}
	if s.Pattern == "" {
		return errors.New("pattern not configured")
	}
	if s.PIDFile == "" {
		return errors.New("pidfile not configured")
	}
	return nil
}

// checkExecutable verifies the binary exists and carries an execute bit.
func (s Spec) checkExecutable() error {
	fi, err := os.Stat(s.Executable)
	if err != nil || fi.IsDir() {
		return ErrExecutableMissing
	}
	if runtime.GOOS != "windows" && fi.Mode()&0o111 == 0 {
		return ErrExecutableMissing
	}
	return nil
}

// Status is a snapshot of the managed process as observed via the process
// table and the PID record.
type Status struct {
	Name       string    `json:"name"`
	Running    bool      `json:"running"`
	PID        int       `json:"pid"`
	DetectedBy string    `json:"detected_by,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}
