//go:build !windows

package schedule

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// tagPrefix marks lines owned by this tool inside the user crontab. The ID
// after the prefix keys the idempotent upsert.
const tagPrefix = "# ets2ctl:"

// crontab reads and rewrites the invoking user's crontab. Commands go
// through runner so tests substitute a fake.
type crontab struct {
	runner cronRunner
}

// cronRunner abstracts `crontab -l` and `crontab -` (write from stdin).
type cronRunner interface {
	Read() (string, error)
	Write(content string) error
}

func platformScheduler() Scheduler { return &crontab{runner: execRunner{}} }

// newCrontab is used by tests to inject a fake runner.
func newCrontab(r cronRunner) *crontab { return &crontab{runner: r} }

func (c *crontab) Upsert(e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	current, err := c.runner.Read()
	if err != nil {
		return err
	}
	kept := removeEntry(current, e.ID)
	line := fmt.Sprintf("*/%d * * * * %s %s%s", e.PeriodMinutes, e.Command, tagPrefix, e.ID)
	if kept != "" && !strings.HasSuffix(kept, "\n") {
		kept += "\n"
	}
	return c.runner.Write(kept + line + "\n")
}

func (c *crontab) Installed(id string) (bool, error) {
	current, err := c.runner.Read()
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(current, "\n") {
		if strings.HasSuffix(strings.TrimSpace(line), tagPrefix+id) {
			return true, nil
		}
	}
	return false, nil
}

func (c *crontab) Remove(id string) error {
	current, err := c.runner.Read()
	if err != nil {
		return err
	}
	kept := removeEntry(current, id)
	if kept == current {
		return nil
	}
	return c.runner.Write(kept)
}

// removeEntry drops every line tagged with id, preserving the rest verbatim.
func removeEntry(content, id string) string {
	if content == "" {
		return ""
	}
	var kept []string
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		if strings.HasSuffix(strings.TrimSpace(line), tagPrefix+id) {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, "\n") + "\n"
}

type execRunner struct{}

func (execRunner) Read() (string, error) {
	out, err := exec.Command("crontab", "-l").Output()
	if err != nil {
		// `crontab -l` exits non-zero when the user has no crontab yet.
		var ee *exec.ExitError
		if errors.As(err, &ee) && len(out) == 0 {
			return "", nil
		}
		return "", err
	}
	return string(out), nil
}

func (execRunner) Write(content string) error {
	cmd := exec.Command("crontab", "-")
	cmd.Stdin = strings.NewReader(content)
	return cmd.Run()
}
