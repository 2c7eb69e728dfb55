//go:build !windows

package schedule

import (
	"strings"
	"testing"
)

// fakeRunner holds crontab content in memory.
type fakeRunner struct {
	content string
	writes  int
}

func (r *fakeRunner) Read() (string, error) { return r.content, nil }

func (r *fakeRunner) Write(content string) error {
	r.content = content
	r.writes++
	return nil
}

func monitorTestEntry() Entry {
	return Entry{
		ID:            "ets2-server",
		PeriodMinutes: 5,
		Command:       "/usr/local/bin/ets2ctl --config /etc/ets2ctl/config.toml monitor",
	}
}

func TestUpsertInstallsTaggedLine(t *testing.T) {
	r := &fakeRunner{}
	c := newCrontab(r)

	if err := c.Upsert(monitorTestEntry()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	want := "*/5 * * * * /usr/local/bin/ets2ctl --config /etc/ets2ctl/config.toml monitor # ets2ctl:ets2-server\n"
	if r.content != want {
		t.Fatalf("crontab = %q, want %q", r.content, want)
	}

	ok, err := c.Installed("ets2-server")
	if err != nil || !ok {
		t.Fatalf("installed = %v, %v; want true", ok, err)
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	r := &fakeRunner{}
	c := newCrontab(r)
	e := monitorTestEntry()

	for i := 0; i < 3; i++ {
		if err := c.Upsert(e); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}
	if n := strings.Count(r.content, tagPrefix+e.ID); n != 1 {
		t.Fatalf("tagged lines = %d, want exactly 1\n%s", n, r.content)
	}
}

func TestUpsertReplacesPeriod(t *testing.T) {
	r := &fakeRunner{}
	c := newCrontab(r)
	e := monitorTestEntry()

	if err := c.Upsert(e); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	e.PeriodMinutes = 10
	if err := c.Upsert(e); err != nil {
		t.Fatalf("upsert updated: %v", err)
	}
	if !strings.Contains(r.content, "*/10 * * * *") {
		t.Fatalf("period not updated:\n%s", r.content)
	}
	if strings.Contains(r.content, "*/5 * * * *") {
		t.Fatalf("old period line kept:\n%s", r.content)
	}
}

func TestUpsertPreservesForeignLines(t *testing.T) {
	r := &fakeRunner{content: "0 3 * * * /usr/bin/backup.sh\n# a comment\n"}
	c := newCrontab(r)

	if err := c.Upsert(monitorTestEntry()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !strings.Contains(r.content, "/usr/bin/backup.sh") {
		t.Fatalf("foreign entry lost:\n%s", r.content)
	}
	if !strings.Contains(r.content, "# a comment") {
		t.Fatalf("foreign comment lost:\n%s", r.content)
	}
}

func TestRemove(t *testing.T) {
	r := &fakeRunner{content: "0 3 * * * /usr/bin/backup.sh\n"}
	c := newCrontab(r)

	if err := c.Upsert(monitorTestEntry()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := c.Remove("ets2-server"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if strings.Contains(r.content, tagPrefix) {
		t.Fatalf("tagged line kept after remove:\n%s", r.content)
	}
	if !strings.Contains(r.content, "/usr/bin/backup.sh") {
		t.Fatalf("foreign entry lost:\n%s", r.content)
	}

	ok, err := c.Installed("ets2-server")
	if err != nil || ok {
		t.Fatalf("installed after remove = %v, %v; want false", ok, err)
	}
}

func TestRemoveMissentryIsNoop(t *testing.T) {
	r := &fakeRunner{content: "0 3 * * * /usr/bin/backup.sh\n"}
	c := newCrontab(r)

	if err := c.Remove("never-installed"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if r.writes != 0 {
		t.Fatalf("crontab rewritten for missing entry")
	}
}

func TestEntryValidation(t *testing.T) {
	cases := []struct {
		name string
		e    Entry
	}{
		{"empty id", Entry{PeriodMinutes: 5, Command: "x"}},
		{"zero period", Entry{ID: "a", Command: "x"}},
		{"negative period", Entry{ID: "a", PeriodMinutes: -1, Command: "x"}},
		{"empty command", Entry{ID: "a", PeriodMinutes: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := newCrontab(&fakeRunner{}).Upsert(tc.e); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
