//go:build windows

package supervisor

import (
	"os/exec"
	"syscall"
)

type platformLauncher struct{}

func newPlatformLauncher() Launcher { return platformLauncher{} }

func (platformLauncher) Launch(spec Spec) (int, error) {
	// #nosec G204 -- executable and args come from static operator config
	cmd := exec.Command(spec.Executable, spec.Args...)
	if spec.WorkDir != "" {
		cmd.Dir = spec.WorkDir
	}
	// DETACHED_PROCESS | CREATE_NEW_PROCESS_GROUP so the server survives the
	// console that launched it.
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: 0x00000008 | 0x00000200}

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
