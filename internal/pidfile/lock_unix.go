//go:build !windows

package pidfile

import (
	"os"
	"path/filepath"
	"syscall"
)

type flockLock struct {
	path string
}

func platformLock(path string) Lock { return &flockLock{path: path} }

func (l *flockLock) Acquire() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, err
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, err
	}
	return func() {
		_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		_ = f.Close()
	}, nil
}
