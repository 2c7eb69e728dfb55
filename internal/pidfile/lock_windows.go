//go:build windows

package pidfile

import (
	"os"
	"path/filepath"
	"time"
)

// mutexLock approximates flock semantics with an exclusive lock file.
// A stale lock older than a minute is broken; supervisor operations finish
// well within that budget.
type mutexLock struct {
	path string
}

func platformLock(path string) Lock { return &mutexLock{path: path} }

func (l *mutexLock) Acquire() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return nil, err
	}
	for {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_ = f.Close()
			p := l.path
			return func() { _ = os.Remove(p) }, nil
		}
		if !os.IsExist(err) {
			return nil, err
		}
		if fi, statErr := os.Stat(l.path); statErr == nil && time.Since(fi.ModTime()) > time.Minute {
			_ = os.Remove(l.path)
			continue
		}
		time.Sleep(100 * time.Millisecond)
	}
}
