// ABOUTME: TaskStore owns follow-up tasks
// ABOUTME: CRUD, multi-predicate filtering, overdue/upcoming derivation, and stats

package crm

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Codie-king/mini-crm/internal/ident"
	"github.com/Codie-king/mini-crm/internal/persist"
)

// SnapshotTasks is the sink key for the task collection.
const SnapshotTasks = "crm-tasks"

// View modes for the task page. Persisted alongside the tasks themselves.
const (
	ViewList     = "list"
	ViewCalendar = "calendar"
)

// upcomingWindow is how far ahead Upcoming looks.
const upcomingWindow = 7 * 24 * time.Hour

type taskSnapshot struct {
	Tasks    []Task `json:"tasks"`
	ViewMode string `json:"viewMode"`
}

// TaskStats summarizes the task collection.
type TaskStats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Overdue        int `json:"overdue"`
	Upcoming       int `json:"upcoming"`
	CompletionRate int `json:"completionRate"`
}

// TaskStore owns the task collection.
type TaskStore struct {
	mu         sync.RWMutex
	sink       persist.Sink
	ident      ident.Service
	logger     *slog.Logger
	tasks      []Task
	viewMode   string
	persistErr error
}

// NewTaskStore creates a TaskStore, loading any existing snapshot.
func NewTaskStore(ctx context.Context, sink persist.Sink, id ident.Service, logger *slog.Logger) (*TaskStore, error) {
	s := &TaskStore{
		sink:     sink,
		ident:    id,
		logger:   logger.With("component", "tasks"),
		viewMode: ViewList,
	}

	var snap taskSnapshot
	ok, err := sink.Load(ctx, SnapshotTasks, &snap)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	if ok {
		s.tasks = snap.Tasks
		if snap.ViewMode != "" {
			s.viewMode = snap.ViewMode
		}
	}
	return s, nil
}

// Add stores a new task, assigning id and timestamps. An empty status becomes
// "todo", an empty priority "medium", and a zero due date defaults to the
// creation time.
func (s *TaskStore) Add(ctx context.Context, t Task) Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.ident.Now()
	t.ID = s.ident.NewID()
	t.CreatedAt = now
	t.UpdatedAt = now
	if !t.Status.Valid() {
		t.Status = TaskTodo
	}
	if !t.Priority.Valid() {
		t.Priority = PriorityMedium
	}
	if t.DueDate.IsZero() {
		t.DueDate = now
	}

	s.tasks = append(s.tasks, t)
	s.persistLocked(ctx)
	return t
}

// TaskPatch carries partial updates; nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *TaskStatus
	DueDate     *time.Time
	ClientID    *string
	ClientName  *string
	LeadID      *string
	LeadTitle   *string
	AssignedTo  *string
}

// Update merges the patch into the matching task and refreshes UpdatedAt.
// Unknown ids are a silent no-op.
func (s *TaskStore) Update(ctx context.Context, id string, patch TaskPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		t := &s.tasks[i]
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Priority != nil && patch.Priority.Valid() {
			t.Priority = *patch.Priority
		}
		if patch.Status != nil && CanMoveTaskStatus(t.Status, *patch.Status) {
			t.Status = *patch.Status
		}
		if patch.DueDate != nil {
			t.DueDate = *patch.DueDate
		}
		if patch.ClientID != nil {
			t.ClientID = *patch.ClientID
		}
		if patch.ClientName != nil {
			t.ClientName = *patch.ClientName
		}
		if patch.LeadID != nil {
			t.LeadID = *patch.LeadID
		}
		if patch.LeadTitle != nil {
			t.LeadTitle = *patch.LeadTitle
		}
		if patch.AssignedTo != nil {
			t.AssignedTo = *patch.AssignedTo
		}
		t.UpdatedAt = s.ident.Now()
		s.persistLocked(ctx)
		return
	}
}

// Delete removes the task. Unknown ids are a no-op.
func (s *TaskStore) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.persistLocked(ctx)
			return
		}
	}
}

// Get returns the task with the given id, or ErrNotFound.
func (s *TaskStore) Get(id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return s.tasks[i], nil
		}
	}
	return Task{}, ErrNotFound
}

// All returns every task in insertion order.
func (s *TaskStore) All() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Task{}, s.tasks...)
}

// Filter returns the tasks matching all three exact-match predicates, each
// bypassed by FilterAll.
func (s *TaskStore) Filter(status, priority, clientID string) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Task
	for i := range s.tasks {
		t := &s.tasks[i]

		matchesStatus := status == FilterAll || string(t.Status) == status
		matchesPriority := priority == FilterAll || string(t.Priority) == priority
		matchesClient := clientID == FilterAll || t.ClientID == clientID

		if matchesStatus && matchesPriority && matchesClient {
			out = append(out, *t)
		}
	}
	return out
}

// ByClient returns the tasks referencing the given client id.
func (s *TaskStore) ByClient(clientID string) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Task
	for i := range s.tasks {
		if s.tasks[i].ClientID == clientID {
			out = append(out, s.tasks[i])
		}
	}
	return out
}

// ByLead returns the tasks referencing the given lead id.
func (s *TaskStore) ByLead(leadID string) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Task
	for i := range s.tasks {
		if s.tasks[i].LeadID == leadID {
			out = append(out, s.tasks[i])
		}
	}
	return out
}

// Overdue returns tasks that are not completed and whose due date is strictly
// in the past. Cancelled tasks with a past due date are included: completed
// is the only excluded status.
func (s *TaskStore) Overdue() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overdueLocked(s.ident.Now())
}

func (s *TaskStore) overdueLocked(now time.Time) []Task {
	var out []Task
	for i := range s.tasks {
		t := &s.tasks[i]
		if t.Status != TaskCompleted && t.DueDate.Before(now) {
			out = append(out, *t)
		}
	}
	return out
}

// Upcoming returns tasks that are not completed and are due within the next
// seven days, both bounds inclusive.
func (s *TaskStore) Upcoming() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.upcomingLocked(s.ident.Now())
}

func (s *TaskStore) upcomingLocked(now time.Time) []Task {
	horizon := now.Add(upcomingWindow)
	var out []Task
	for i := range s.tasks {
		t := &s.tasks[i]
		if t.Status == TaskCompleted {
			continue
		}
		if !t.DueDate.Before(now) && !t.DueDate.After(horizon) {
			out = append(out, *t)
		}
	}
	return out
}

// ForDate returns tasks whose due date falls on the same UTC calendar day as
// date.
func (s *TaskStore) ForDate(date time.Time) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	y, m, d := date.UTC().Date()
	var out []Task
	for i := range s.tasks {
		ty, tm, td := s.tasks[i].DueDate.UTC().Date()
		if ty == y && tm == m && td == d {
			out = append(out, s.tasks[i])
		}
	}
	return out
}

// Stats summarizes the collection. CompletionRate is the rounded percentage
// of completed tasks, zero for an empty collection.
func (s *TaskStore) Stats() TaskStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.ident.Now()
	stats := TaskStats{Total: len(s.tasks)}
	for i := range s.tasks {
		if s.tasks[i].Status == TaskCompleted {
			stats.Completed++
		}
	}
	stats.Overdue = len(s.overdueLocked(now))
	stats.Upcoming = len(s.upcomingLocked(now))
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats
}

// ViewMode returns the persisted task page view mode.
func (s *TaskStore) ViewMode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewMode
}

// SetViewMode switches between ViewList and ViewCalendar; other values are
// ignored.
func (s *TaskStore) SetViewMode(ctx context.Context, mode string) {
	if mode != ViewList && mode != ViewCalendar {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewMode = mode
	s.persistLocked(ctx)
}

// LastPersistError reports the outcome of the most recent snapshot write.
func (s *TaskStore) LastPersistError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistErr
}

func (s *TaskStore) persistLocked(ctx context.Context) {
	err := s.sink.Save(ctx, SnapshotTasks, taskSnapshot{Tasks: s.tasks, ViewMode: s.viewMode})
	s.persistErr = err
	if err != nil {
		s.logger.Warn("snapshot write failed", "key", SnapshotTasks, "error", err)
	}
}
