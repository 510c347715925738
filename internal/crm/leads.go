// ABOUTME: LeadStore owns the sales pipeline
// ABOUTME: CRUD, stage moves, and value/count aggregation with snapshot persistence

package crm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Codie-king/mini-crm/internal/ident"
	"github.com/Codie-king/mini-crm/internal/persist"
)

// SnapshotLeads is the sink key for the lead collection.
const SnapshotLeads = "crm-leads"

type leadSnapshot struct {
	Leads []Lead `json:"leads"`
}

// LeadStore owns the lead collection.
type LeadStore struct {
	mu         sync.RWMutex
	sink       persist.Sink
	ident      ident.Service
	logger     *slog.Logger
	leads      []Lead
	persistErr error
}

// NewLeadStore creates a LeadStore, loading any existing snapshot.
func NewLeadStore(ctx context.Context, sink persist.Sink, id ident.Service, logger *slog.Logger) (*LeadStore, error) {
	s := &LeadStore{
		sink:   sink,
		ident:  id,
		logger: logger.With("component", "leads"),
	}

	var snap leadSnapshot
	ok, err := sink.Load(ctx, SnapshotLeads, &snap)
	if err != nil {
		return nil, fmt.Errorf("loading leads: %w", err)
	}
	if ok {
		s.leads = snap.Leads
	}
	return s, nil
}

// Add stores a new lead, assigning id and timestamps. An empty stage becomes
// "new", an empty priority "medium", and a negative value is clamped to zero.
func (s *LeadStore) Add(ctx context.Context, l Lead) Lead {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.ident.Now()
	l.ID = s.ident.NewID()
	l.CreatedAt = now
	l.UpdatedAt = now
	if !l.Stage.Valid() {
		l.Stage = StageNew
	}
	if !l.Priority.Valid() {
		l.Priority = PriorityMedium
	}
	if l.Value < 0 {
		l.Value = 0
	}

	s.leads = append(s.leads, l)
	s.persistLocked(ctx)
	return l
}

// LeadPatch carries partial updates; nil fields are left unchanged. Setting
// ClearExpectedCloseDate removes the close date regardless of
// ExpectedCloseDate.
type LeadPatch struct {
	Title                  *string
	ClientID               *string
	ClientName             *string
	Stage                  *Stage
	Value                  *float64
	Priority               *Priority
	Description            *string
	ContactPerson          *string
	Email                  *string
	Phone                  *string
	Notes                  *string
	ExpectedCloseDate      *time.Time
	ClearExpectedCloseDate bool
}

// Update merges the patch into the matching lead and refreshes UpdatedAt.
// Unknown ids are a silent no-op.
func (s *LeadStore) Update(ctx context.Context, id string, patch LeadPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.leads {
		if s.leads[i].ID != id {
			continue
		}
		l := &s.leads[i]
		if patch.Title != nil {
			l.Title = *patch.Title
		}
		if patch.ClientID != nil {
			l.ClientID = *patch.ClientID
		}
		if patch.ClientName != nil {
			l.ClientName = *patch.ClientName
		}
		if patch.Stage != nil && patch.Stage.Valid() {
			l.Stage = *patch.Stage
		}
		if patch.Value != nil {
			l.Value = *patch.Value
			if l.Value < 0 {
				l.Value = 0
			}
		}
		if patch.Priority != nil && patch.Priority.Valid() {
			l.Priority = *patch.Priority
		}
		if patch.Description != nil {
			l.Description = *patch.Description
		}
		if patch.ContactPerson != nil {
			l.ContactPerson = *patch.ContactPerson
		}
		if patch.Email != nil {
			l.Email = *patch.Email
		}
		if patch.Phone != nil {
			l.Phone = *patch.Phone
		}
		if patch.Notes != nil {
			l.Notes = *patch.Notes
		}
		if patch.ClearExpectedCloseDate {
			l.ExpectedCloseDate = nil
		} else if patch.ExpectedCloseDate != nil {
			d := *patch.ExpectedCloseDate
			l.ExpectedCloseDate = &d
		}
		l.UpdatedAt = s.ident.Now()
		s.persistLocked(ctx)
		return
	}
}

// Delete removes the lead. Tasks referencing it keep their leadId. Unknown
// ids are a no-op.
func (s *LeadStore) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.leads {
		if s.leads[i].ID == id {
			s.leads = append(s.leads[:i], s.leads[i+1:]...)
			s.persistLocked(ctx)
			return
		}
	}
}

// Get returns the lead with the given id, or ErrNotFound.
func (s *LeadStore) Get(id string) (Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.leads {
		if s.leads[i].ID == id {
			return s.leads[i], nil
		}
	}
	return Lead{}, ErrNotFound
}

// All returns every lead in insertion order.
func (s *LeadStore) All() []Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Lead{}, s.leads...)
}

// MoveStage moves the lead to newStage and refreshes UpdatedAt. Moves in any
// direction are allowed (see CanMoveStage); invalid stages and unknown ids
// are silent no-ops.
func (s *LeadStore) MoveStage(ctx context.Context, id string, newStage Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.leads {
		if s.leads[i].ID != id {
			continue
		}
		if !CanMoveStage(s.leads[i].Stage, newStage) {
			return
		}
		s.leads[i].Stage = newStage
		s.leads[i].UpdatedAt = s.ident.Now()
		s.persistLocked(ctx)
		return
	}
}

// ByStage returns the leads in the given stage, in insertion order.
func (s *LeadStore) ByStage(stage Stage) []Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Lead
	for i := range s.leads {
		if s.leads[i].Stage == stage {
			out = append(out, s.leads[i])
		}
	}
	return out
}

// ByClient returns the leads referencing the given client id.
func (s *LeadStore) ByClient(clientID string) []Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Lead
	for i := range s.leads {
		if s.leads[i].ClientID == clientID {
			out = append(out, s.leads[i])
		}
	}
	return out
}

// PipelineValue sums value across every lead, won and lost included:
// "pipeline" here means total tracked value, not only open opportunities.
func (s *LeadStore) PipelineValue() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for i := range s.leads {
		total += s.leads[i].Value
	}
	return total
}

// StageValue sums value across the leads in one stage.
func (s *LeadStore) StageValue(stage Stage) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for i := range s.leads {
		if s.leads[i].Stage == stage {
			total += s.leads[i].Value
		}
	}
	return total
}

// CountByStage counts the leads in one stage.
func (s *LeadStore) CountByStage(stage Stage) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for i := range s.leads {
		if s.leads[i].Stage == stage {
			count++
		}
	}
	return count
}

// LastPersistError reports the outcome of the most recent snapshot write.
func (s *LeadStore) LastPersistError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistErr
}

func (s *LeadStore) persistLocked(ctx context.Context) {
	err := s.sink.Save(ctx, SnapshotLeads, leadSnapshot{Leads: s.leads})
	s.persistErr = err
	if err != nil {
		s.logger.Warn("snapshot write failed", "key", SnapshotLeads, "error", err)
	}
}
