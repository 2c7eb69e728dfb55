//go:build !windows

package supervisor

import (
	"os/exec"
	"syscall"
)

// platformLauncher starts the server detached in its own session so it
// survives the invoking CLI process.
type platformLauncher struct{}

func newPlatformLauncher() Launcher { return platformLauncher{} }

func (platformLauncher) Launch(spec Spec) (int, error) {
	// #nosec G204 -- executable and args come from static operator config
	cmd := exec.Command(spec.Executable, spec.Args...)
	if spec.WorkDir != "" {
		cmd.Dir = spec.WorkDir
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	// The child outlives this process, so stdio must be real files, not
	// in-process writers.
	out, err := openServerOutput(spec)
	if err != nil {
		return 0, err
	}
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		_ = out.Close()
		return 0, err
	}
	pid := cmd.Process.Pid
	_ = out.Close()
	_ = cmd.Process.Release()
	return pid, nil
}
