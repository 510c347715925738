// ABOUTME: UIStore holds process-wide presentation state
// ABOUTME: Modal/selection state is ephemeral; theme and sidebar flags persist

package crm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Codie-king/mini-crm/internal/persist"
)

// SnapshotUI is the sink key for persisted UI preferences.
const SnapshotUI = "crm-ui"

// ModalKind identifies which entity form a modal is showing.
type ModalKind string

const (
	ModalNone   ModalKind = ""
	ModalClient ModalKind = "client"
	ModalLead   ModalKind = "lead"
	ModalTask   ModalKind = "task"
)

// uiSnapshot is the persisted shape. Modal state is deliberately excluded:
// a fresh load always starts with no modal open.
type uiSnapshot struct {
	DarkMode    bool `json:"isDarkMode"`
	SidebarOpen bool `json:"sidebarOpen"`
}

// UIStore holds ephemeral UI coordination state plus two persisted
// preferences. ModalData carries the entity being edited; a nil ModalData
// with a non-none ModalKind means "create new".
type UIStore struct {
	mu          sync.RWMutex
	sink        persist.Sink
	logger      *slog.Logger
	activeModal ModalKind
	modalData   any
	darkMode    bool
	sidebarOpen bool
	persistErr  error
}

// NewUIStore creates a UIStore, loading persisted preferences if present.
// The sidebar defaults to open on first run.
func NewUIStore(ctx context.Context, sink persist.Sink, logger *slog.Logger) (*UIStore, error) {
	s := &UIStore{
		sink:        sink,
		logger:      logger.With("component", "ui"),
		sidebarOpen: true,
	}

	var snap uiSnapshot
	ok, err := sink.Load(ctx, SnapshotUI, &snap)
	if err != nil {
		return nil, fmt.Errorf("loading ui state: %w", err)
	}
	if ok {
		s.darkMode = snap.DarkMode
		s.sidebarOpen = snap.SidebarOpen
	}
	return s, nil
}

// OpenModal shows the form for kind, editing data. Pass nil data to open the
// form in create-new mode.
func (s *UIStore) OpenModal(kind ModalKind, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeModal = kind
	s.modalData = data
}

// CloseModal clears the active modal and its data together, so a later
// OpenModal can never inherit a stale record.
func (s *UIStore) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeModal = ModalNone
	s.modalData = nil
}

// ActiveModal returns the currently open modal kind, ModalNone when closed.
func (s *UIStore) ActiveModal() ModalKind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeModal
}

// ModalData returns the entity the open modal is editing, nil in create-new
// mode or when no modal is open.
func (s *UIStore) ModalData() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modalData
}

// DarkMode reports the persisted theme flag.
func (s *UIStore) DarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.darkMode
}

// SetDarkMode sets the theme flag.
func (s *UIStore) SetDarkMode(ctx context.Context, dark bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkMode = dark
	s.persistLocked(ctx)
}

// ToggleDarkMode flips the theme flag.
func (s *UIStore) ToggleDarkMode(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkMode = !s.darkMode
	s.persistLocked(ctx)
}

// SidebarOpen reports the persisted sidebar flag.
func (s *UIStore) SidebarOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sidebarOpen
}

// SetSidebarOpen sets the sidebar flag.
func (s *UIStore) SetSidebarOpen(ctx context.Context, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarOpen = open
	s.persistLocked(ctx)
}

// ToggleSidebar flips the sidebar flag.
func (s *UIStore) ToggleSidebar(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarOpen = !s.sidebarOpen
	s.persistLocked(ctx)
}

// LastPersistError reports the outcome of the most recent snapshot write.
func (s *UIStore) LastPersistError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistErr
}

func (s *UIStore) persistLocked(ctx context.Context) {
	err := s.sink.Save(ctx, SnapshotUI, uiSnapshot{DarkMode: s.darkMode, SidebarOpen: s.sidebarOpen})
	s.persistErr = err
	if err != nil {
		s.logger.Warn("snapshot write failed", "key", SnapshotUI, "error", err)
	}
}
