package pidfile

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoRecord is returned by Read when no PID record exists.
var ErrNoRecord = errors.New("no pid record")

// Store persists the last known PID of the managed process. Absence of a
// record means "assume not running, but verify via the process table".
type Store interface {
	// Read returns the recorded PID or ErrNoRecord.
	Read() (int, error)
	// Write replaces the record with pid.
	Write(pid int) error
	// Remove deletes the record. Removing a missing record is not an error.
	Remove() error
}

// FileStore keeps one decimal PID in a text file.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

func (s *FileStore) Read() (int, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNoRecord
		}
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, errors.New("invalid pid record in " + s.Path)
	}
	return pid, nil
}

func (s *FileStore) Write(pid int) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(strconv.Itoa(pid)), 0o600)
}

func (s *FileStore) Remove() error {
	err := os.Remove(s.Path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
