// ABOUTME: ClientStore owns the client collection
// ABOUTME: CRUD, search/filter, and tag aggregation with snapshot persistence

package crm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Codie-king/mini-crm/internal/ident"
	"github.com/Codie-king/mini-crm/internal/persist"
)

// SnapshotClients is the sink key for the client collection.
const SnapshotClients = "crm-clients"

// clientSnapshot is the persisted shape of the store. Filter inputs are UI
// state and are deliberately not part of it.
type clientSnapshot struct {
	Clients []Client `json:"clients"`
}

// ClientStore owns the client collection. Mutations apply in memory first and
// then write a full snapshot through the sink; a failed write leaves memory
// ahead of disk and is reported via LastPersistError.
type ClientStore struct {
	mu         sync.RWMutex
	sink       persist.Sink
	ident      ident.Service
	logger     *slog.Logger
	clients    []Client
	persistErr error
}

// NewClientStore creates a ClientStore, loading any existing snapshot.
func NewClientStore(ctx context.Context, sink persist.Sink, id ident.Service, logger *slog.Logger) (*ClientStore, error) {
	s := &ClientStore{
		sink:   sink,
		ident:  id,
		logger: logger.With("component", "clients"),
	}

	var snap clientSnapshot
	ok, err := sink.Load(ctx, SnapshotClients, &snap)
	if err != nil {
		return nil, fmt.Errorf("loading clients: %w", err)
	}
	if ok {
		s.clients = snap.Clients
	}
	return s, nil
}

// Add stores a new client. The id and both timestamps are assigned here, not
// by the caller. Returns the stored entity.
func (s *ClientStore) Add(ctx context.Context, c Client) Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.ident.Now()
	c.ID = s.ident.NewID()
	c.CreatedAt = now
	c.UpdatedAt = now
	if !c.Status.Valid() {
		c.Status = ClientActive
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}

	s.clients = append(s.clients, c)
	s.persistLocked(ctx)
	return cloneClient(c)
}

// ClientPatch carries partial updates; nil fields are left unchanged.
type ClientPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Company *string
	Status  *ClientStatus
	Tags    []string
	Notes   *string
}

// Update merges the patch into the matching client and refreshes UpdatedAt.
// Unknown ids are a silent no-op.
func (s *ClientStore) Update(ctx context.Context, id string, patch ClientPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.clients {
		if s.clients[i].ID != id {
			continue
		}
		c := &s.clients[i]
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Email != nil {
			c.Email = *patch.Email
		}
		if patch.Phone != nil {
			c.Phone = *patch.Phone
		}
		if patch.Company != nil {
			c.Company = *patch.Company
		}
		if patch.Status != nil && patch.Status.Valid() {
			c.Status = *patch.Status
		}
		if patch.Tags != nil {
			c.Tags = append([]string{}, patch.Tags...)
		}
		if patch.Notes != nil {
			c.Notes = *patch.Notes
		}
		c.UpdatedAt = s.ident.Now()
		s.persistLocked(ctx)
		return
	}
}

// Delete removes the client. Leads and tasks that reference it keep their
// clientId; the reference simply stops resolving. Unknown ids are a no-op.
func (s *ClientStore) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.clients {
		if s.clients[i].ID == id {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			s.persistLocked(ctx)
			return
		}
	}
}

// Get returns the client with the given id, or ErrNotFound.
func (s *ClientStore) Get(id string) (Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.clients {
		if s.clients[i].ID == id {
			return cloneClient(s.clients[i]), nil
		}
	}
	return Client{}, ErrNotFound
}

// All returns every client in insertion order.
func (s *ClientStore) All() []Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Client, 0, len(s.clients))
	for i := range s.clients {
		out = append(out, cloneClient(s.clients[i]))
	}
	return out
}

// Filter returns the clients matching all three predicates: search is a
// case-insensitive substring of name, email, or company (empty matches all);
// status and tag must match exactly unless they are FilterAll.
func (s *ClientStore) Filter(search, status, tag string) []Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search = strings.ToLower(search)
	var out []Client
	for i := range s.clients {
		c := &s.clients[i]

		matchesSearch := search == "" ||
			strings.Contains(strings.ToLower(c.Name), search) ||
			strings.Contains(strings.ToLower(c.Email), search) ||
			strings.Contains(strings.ToLower(c.Company), search)
		matchesStatus := status == FilterAll || string(c.Status) == status
		matchesTag := tag == FilterAll || containsString(c.Tags, tag)

		if matchesSearch && matchesStatus && matchesTag {
			out = append(out, cloneClient(*c))
		}
	}
	return out
}

// AllTags returns the deduplicated union of every client's tags, in
// first-seen order.
func (s *ClientStore) AllTags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for i := range s.clients {
		for _, tag := range s.clients[i].Tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	return out
}

// LastPersistError reports the outcome of the most recent snapshot write:
// nil after a success, the write error after a failure. In-memory state is
// ahead of the durable state while this is non-nil.
func (s *ClientStore) LastPersistError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistErr
}

func (s *ClientStore) persistLocked(ctx context.Context) {
	err := s.sink.Save(ctx, SnapshotClients, clientSnapshot{Clients: s.clients})
	s.persistErr = err
	if err != nil {
		s.logger.Warn("snapshot write failed", "key", SnapshotClients, "error", err)
	}
}

func cloneClient(c Client) Client {
	c.Tags = append([]string{}, c.Tags...)
	return c
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
