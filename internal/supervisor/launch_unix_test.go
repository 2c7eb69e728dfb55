//go:build !windows

package supervisor

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestPlatformLauncherDetaches(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "server.log")
	spec := Spec{
		Name:       "ets2-server",
		Executable: "/bin/sh",
		Args:       []string{"-c", "echo booted; sleep 10"},
		WorkDir:    dir,
		Pattern:    "irrelevant",
		PIDFile:    filepath.Join(dir, "server.pid"),
		OutputLog:  out,
	}

	pid, err := newPlatformLauncher().Launch(spec)
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	if pid <= 0 {
		t.Fatalf("pid = %d", pid)
	}
	defer func() { _ = syscall.Kill(pid, syscall.SIGKILL) }()

	// Setsid makes the child the leader of a fresh session and process
	// group, so its pgid must be its own pid and must differ from ours.
	deadline := time.Now().Add(2 * time.Second)
	for {
		pgid, err := syscall.Getpgid(pid)
		if err == nil {
			if own, _ := syscall.Getpgid(os.Getpid()); pgid == own {
				t.Fatalf("child shares the caller's process group")
			}
			if pgid != pid {
				t.Fatalf("child pgid = %d, want session leader %d", pgid, pid)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("getpgid(%d): %v", pid, err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Output is appended to the configured file.
	deadline = time.Now().Add(2 * time.Second)
	for {
		b, _ := os.ReadFile(out)
		if strings.Contains(string(b), "booted") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server output not captured: %q", b)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestOpenServerOutputDevNull(t *testing.T) {
	f, err := openServerOutput(Spec{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = f.Close()
	if f.Name() != os.DevNull {
		t.Fatalf("output = %s, want %s", f.Name(), os.DevNull)
	}
}
