//go:build windows

package schedule

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// schtasks registers the monitor command with the Windows Task Scheduler.
// The task name doubles as the stable ID.
type schtasks struct{}

func platformScheduler() Scheduler { return schtasks{} }

func taskName(id string) string { return "ets2ctl-" + id }

func (s schtasks) Upsert(e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	// /F replaces an existing task with the same name, which gives us the
	// upsert semantics directly.
	cmd := exec.Command("schtasks", "/Create", "/F",
		"/TN", taskName(e.ID),
		"/SC", "MINUTE", "/MO", strconv.Itoa(e.PeriodMinutes),
		"/TR", e.Command)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("schtasks create failed: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (s schtasks) Installed(id string) (bool, error) {
	err := exec.Command("schtasks", "/Query", "/TN", taskName(id)).Run()
	if err == nil {
		return true, nil
	}
	if _, ok := err.(*exec.ExitError); ok {
		return false, nil
	}
	return false, err
}

func (s schtasks) Remove(id string) error {
	err := exec.Command("schtasks", "/Delete", "/F", "/TN", taskName(id)).Run()
	if err == nil {
		return nil
	}
	if _, ok := err.(*exec.ExitError); ok {
		// Task not present.
		return nil
	}
	return err
}
