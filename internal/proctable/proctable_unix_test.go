//go:build !windows

package proctable

import (
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"
)

// startSleeper launches a sleep process carrying a unique marker in its argv
// so ListByName can find it without colliding with other tests.
func startSleeper(t *testing.T) (*exec.Cmd, string) {
	t.Helper()
	marker := fmt.Sprintf("ets2ctl-test-%d", time.Now().UnixNano())
	cmd := exec.Command("sh", "-c", fmt.Sprintf(": %s; sleep 30", marker))
	if err := cmd.Start(); err != nil {
		t.Fatalf("start sleeper: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})
	return cmd, marker
}

func TestListByNameFindsProcess(t *testing.T) {
	cmd, marker := startSleeper(t)

	var found bool
	table := New()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		entries, err := table.ListByName(marker)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for _, e := range entries {
			if e.PID == cmd.Process.Pid {
				found = true
			}
		}
		if found {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if !found {
		t.Fatalf("pid %d not found for marker %s", cmd.Process.Pid, marker)
	}
}

func TestListByNameRejectsEmptyPattern(t *testing.T) {
	if _, err := New().ListByName("  "); err == nil {
		t.Fatalf("expected error for empty pattern")
	}
}

func TestListByNameExcludesSelf(t *testing.T) {
	// The test binary's own argv contains "proctable.test"; the scan must
	// never report the calling process.
	entries, err := New().ListByName("proctable.test")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, e := range entries {
		if e.PID == os.Getpid() {
			t.Fatalf("scan returned the calling process: %+v", e)
		}
	}
}

func TestIsAliveLifecycle(t *testing.T) {
	cmd, _ := startSleeper(t)
	table := New()

	if !table.IsAlive(cmd.Process.Pid) {
		t.Fatalf("fresh process reported dead")
	}

	if err := table.Signal(cmd.Process.Pid, SignalKill); err != nil {
		t.Fatalf("kill: %v", err)
	}
	_, _ = cmd.Process.Wait() // reap so the pid leaves the table

	if table.IsAlive(cmd.Process.Pid) {
		t.Fatalf("reaped process reported alive")
	}
}

func TestIsAliveZombie(t *testing.T) {
	cmd := exec.Command("true")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	pid := cmd.Process.Pid
	t.Cleanup(func() { _, _ = cmd.Process.Wait() })

	// Unreaped child: kill(pid, 0) succeeds but the process is a zombie and
	// must not count as alive.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if isZombie(pid) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if !isZombie(pid) {
		t.Skip("child did not become observable as zombie in time")
	}
	if New().IsAlive(pid) {
		t.Fatalf("zombie reported alive")
	}
}

func TestIsAliveInvalidPid(t *testing.T) {
	table := New()
	if table.IsAlive(0) || table.IsAlive(-1) {
		t.Fatalf("non-positive pid reported alive")
	}
}

func TestSignalKinds(t *testing.T) {
	if SignalTerm.String() != "term" || SignalKill.String() != "kill" {
		t.Fatalf("unexpected signal names: %s, %s", SignalTerm, SignalKill)
	}
}
