//go:build !windows

package proctable

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
)

// unixTable scans /proc for discovery and uses kill(2) for signaling.
type unixTable struct{}

func platformTable() Table { return unixTable{} }

func (unixTable) ListByName(pattern string) ([]Entry, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, errors.New("empty process pattern")
	}
	dirs, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}
	self := os.Getpid()
	var out []Entry
	for _, d := range dirs {
		pid, err := strconv.Atoi(d.Name())
		if err != nil || pid == self {
			continue
		}
		cmdline := readCmdline(pid)
		if cmdline == "" || !strings.Contains(cmdline, pattern) {
			continue
		}
		if isZombie(pid) {
			continue
		}
		out = append(out, Entry{PID: pid, Command: cmdline})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out, nil
}

func (unixTable) IsAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	if isZombie(pid) {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

func (unixTable) Signal(pid int, kind SignalKind) error {
	sig := syscall.SIGTERM
	if kind == SignalKill {
		sig = syscall.SIGKILL
	}
	return syscall.Kill(pid, sig)
}

// readCmdline returns the NUL-separated command line joined with spaces.
// Falls back to /proc/<pid>/comm for kernel threads and early-exec windows.
func readCmdline(pid int) string {
	b, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "cmdline"))
	if err == nil && len(b) > 0 {
		return string(bytes.TrimRight(bytes.ReplaceAll(b, []byte{0}, []byte{' '}), " "))
	}
	b, err = os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "comm"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// isZombie reports whether /proc/<pid>/status shows state Z. A child that
// exited but was not reaped still answers kill(pid, 0); it must not count as
// alive.
func isZombie(pid int) bool {
	b, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "status"))
	if err != nil {
		return false
	}
	return bytes.Contains(b, []byte("State:\tZ"))
}
