//go:build windows

package proctable

import (
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// windowsTable shells out to tasklist/taskkill, matching how operators manage
// the server by hand.
type windowsTable struct{}

func platformTable() Table { return windowsTable{} }

func (windowsTable) ListByName(pattern string) ([]Entry, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, errors.New("empty process pattern")
	}
	// CSV output: "Image Name","PID","Session Name","Session#","Mem Usage"
	out, err := exec.Command("tasklist", "/FO", "CSV", "/NH").Output()
	if err != nil {
		return nil, err
	}
	self := os.Getpid()
	var entries []Entry
	for _, line := range strings.Split(string(out), "\n") {
		fields := parseCSVLine(strings.TrimSpace(line))
		if len(fields) < 2 {
			continue
		}
		name := fields[0]
		pid, err := strconv.Atoi(fields[1])
		if err != nil || pid == self {
			continue
		}
		if strings.Contains(name, pattern) {
			entries = append(entries, Entry{PID: pid, Command: name})
		}
	}
	return entries, nil
}

func (t windowsTable) IsAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	out, err := exec.Command("tasklist", "/FO", "CSV", "/NH", "/FI", "PID eq "+strconv.Itoa(pid)).Output()
	if err != nil {
		return false
	}
	return strings.Contains(string(out), `"`+strconv.Itoa(pid)+`"`)
}

func (windowsTable) Signal(pid int, kind SignalKind) error {
	args := []string{"/PID", strconv.Itoa(pid)}
	if kind == SignalKill {
		args = append(args, "/F")
	}
	return exec.Command("taskkill", args...).Run()
}

// parseCSVLine splits a tasklist CSV row. tasklist quotes every field and
// does not embed quotes inside them, so a simple split suffices.
func parseCSVLine(line string) []string {
	if line == "" {
		return nil
	}
	parts := strings.Split(line, `","`)
	for i, p := range parts {
		parts[i] = strings.Trim(p, `"`+"\r")
	}
	return parts
}
