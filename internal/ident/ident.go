// ABOUTME: Identifier and clock service used by the entity stores
// ABOUTME: Provides UUID ids and UTC timestamps, with a deterministic variant for tests

package ident

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service assigns entity identifiers and timestamps. Stores never call
// time.Now or generate ids themselves, so tests can substitute a
// deterministic implementation.
type Service interface {
	// NewID returns a fresh unique identifier.
	NewID() string
	// Now returns the current instant in UTC.
	Now() time.Time
}

// SystemService is the production Service backed by random UUIDs and the
// system clock.
type SystemService struct{}

// NewSystemService creates a SystemService.
func NewSystemService() *SystemService {
	return &SystemService{}
}

func (*SystemService) NewID() string {
	return uuid.New().String()
}

func (*SystemService) Now() time.Time {
	return time.Now().UTC()
}

// SequenceService is a deterministic Service for tests: ids are "id-1",
// "id-2", ... and the clock only moves when Advance is called.
type SequenceService struct {
	mu   sync.Mutex
	next int
	now  time.Time
}

// NewSequenceService creates a SequenceService whose clock starts at the
// given instant (normalized to UTC).
func NewSequenceService(start time.Time) *SequenceService {
	return &SequenceService{now: start.UTC()}
}

func (s *SequenceService) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("id-%d", s.next)
}

func (s *SequenceService) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves the clock forward by d.
func (s *SequenceService) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}
