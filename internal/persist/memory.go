// ABOUTME: In-memory Sink implementation for testing
// ABOUTME: Allows tests to run without touching disk and to inject write failures

package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrWriteFailed is returned by a MemorySink whose writes have been failed on
// purpose.
var ErrWriteFailed = errors.New("write failed")

// MemorySink is an in-memory Sink for tests.
type MemorySink struct {
	mu         sync.RWMutex
	snapshots  map[string][]byte
	saveCount  int
	failWrites bool
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		snapshots: make(map[string][]byte),
	}
}

// Save stores the marshaled snapshot under key.
func (s *MemorySink) Save(ctx context.Context, key string, state any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return ErrWriteFailed
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling snapshot %q: %w", key, err)
	}
	s.snapshots[key] = data
	s.saveCount++
	return nil
}

// Load reads the snapshot stored under key into out.
func (s *MemorySink) Load(ctx context.Context, key string, out any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.snapshots[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parsing snapshot %q: %w", key, err)
	}
	return true, nil
}

// Close is a no-op.
func (s *MemorySink) Close() error {
	return nil
}

// SetFailWrites makes every subsequent Save return ErrWriteFailed.
func (s *MemorySink) SetFailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = fail
}

// SaveCount reports how many successful saves have happened.
func (s *MemorySink) SaveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveCount
}

// Raw returns the stored bytes for key, for tests that assert on the
// persisted shape directly.
func (s *MemorySink) Raw(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.snapshots[key]
	return data, ok
}
