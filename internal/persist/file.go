// ABOUTME: JSON file implementation of the Sink interface
// ABOUTME: One <key>.json per snapshot with atomic replace and a cross-process lock file

package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileSink stores each snapshot as an indented JSON file inside a directory.
// Writes go through a temp file and rename so a crash mid-write never leaves
// a torn snapshot, and a lock file serializes access across processes.
type FileSink struct {
	dir  string
	lock *flock.Flock
}

// NewFileSink creates a FileSink rooted at dir, creating the directory if
// needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}

	// Lock file lives next to the snapshots, never replaced by a save.
	return &FileSink{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

func (s *FileSink) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Save writes the snapshot for key, replacing any previous one atomically.
func (s *FileSink) Save(ctx context.Context, key string, state any) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquiring snapshot lock: %w", err)
	}
	defer s.lock.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot %q: %w", key, err)
	}

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot %q: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing snapshot %q: %w", key, err)
	}
	return nil
}

// Load reads the snapshot for key into out. A missing or empty file means no
// snapshot and is not an error.
func (s *FileSink) Load(ctx context.Context, key string, out any) (bool, error) {
	if err := s.lock.Lock(); err != nil {
		return false, fmt.Errorf("acquiring snapshot lock: %w", err)
	}
	defer s.lock.Unlock()

	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading snapshot %q: %w", key, err)
	}
	if len(data) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parsing snapshot %q: %w", key, err)
	}
	return true, nil
}

// Close is a no-op; the lock is released after every operation.
func (s *FileSink) Close() error {
	return nil
}
