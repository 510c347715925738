package crm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientStore_AddAssignsIDAndTimestamps(t *testing.T) {
	sys, _, _ := newTestSystem(t)
	ctx := context.Background()

	added := sys.Clients.Add(ctx, Client{
		Name:    "John Smith",
		Email:   "john.smith@company.com",
		Company: "Tech Solutions Inc.",
		Status:  ClientActive,
		Tags:    []string{"tech", "enterprise"},
	})
	require.NotEmpty(t, added.ID)
	assert.Equal(t, testEpoch, added.CreatedAt)
	assert.Equal(t, testEpoch, added.UpdatedAt)

	got, err := sys.Clients.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)
}

func TestClientStore_AddDefaults(t *testing.T) {
	sys, _, _ := newTestSystem(t)

	added := sys.Clients.Add(context.Background(), Client{Name: "No Status"})
	assert.Equal(t, ClientActive, added.Status)
	assert.NotNil(t, added.Tags)
}

func TestClientStore_UpdateMergesPartial(t *testing.T) {
	sys, _, clock := newTestSystem(t)
	ctx := context.Background()

	added := sys.Clients.Add(ctx, Client{
		Name:    "Sarah Johnson",
		Email:   "sarah.j@startup.co",
		Company: "StartupXYZ",
		Notes:   "Interested in our SaaS platform.",
	})

	clock.Advance(time.Hour)
	name := "Sarah Johnson-Lee"
	sys.Clients.Update(ctx, added.ID, ClientPatch{Name: &name})

	got, err := sys.Clients.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson-Lee", got.Name)
	// untouched fields survive
	assert.Equal(t, "sarah.j@startup.co", got.Email)
	assert.Equal(t, "StartupXYZ", got.Company)
	assert.Equal(t, "Interested in our SaaS platform.", got.Notes)
	assert.Equal(t, added.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(added.UpdatedAt))
}

func TestClientStore_UpdateUnknownIDIsNoOp(t *testing.T) {
	sys, sink, _ := newTestSystem(t)
	ctx := context.Background()

	sys.Clients.Add(ctx, Client{Name: "Only One"})
	writes := sink.SaveCount()

	name := "Ghost"
	sys.Clients.Update(ctx, "nonexistent", ClientPatch{Name: &name})

	assert.Len(t, sys.Clients.All(), 1)
	assert.Equal(t, writes, sink.SaveCount(), "no-op update should not write a snapshot")
}

func TestClientStore_DeleteIsIdempotent(t *testing.T) {
	sys, _, _ := newTestSystem(t)
	ctx := context.Background()

	a := sys.Clients.Add(ctx, Client{Name: "A"})
	sys.Clients.Add(ctx, Client{Name: "B"})

	sys.Clients.Delete(ctx, a.ID)
	assert.Len(t, sys.Clients.All(), 1)

	sys.Clients.Delete(ctx, a.ID)
	sys.Clients.Delete(ctx, "never-existed")
	assert.Len(t, sys.Clients.All(), 1)

	_, err := sys.Clients.Get(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientStore_Filter(t *testing.T) {
	sys, _, _ := newTestSystem(t)
	ctx := context.Background()

	sys.Clients.Add(ctx, Client{Name: "John Smith", Email: "john@tech.com", Company: "Tech Solutions", Status: ClientActive, Tags: []string{"tech"}})
	sys.Clients.Add(ctx, Client{Name: "Sarah Johnson", Email: "sarah@startup.co", Company: "StartupXYZ", Status: ClientActive, Tags: []string{"saas"}})
	sys.Clients.Add(ctx, Client{Name: "Mike Wilson", Email: "mike@corp.com", Company: "Corporate Ltd.", Status: ClientInactive, Tags: []string{"tech", "legacy"}})

	// empty search matches all
	assert.Len(t, sys.Clients.Filter("", FilterAll, FilterAll), 3)

	// case-insensitive substring over name, email, company
	assert.Len(t, sys.Clients.Filter("JOHN", FilterAll, FilterAll), 2) // John Smith + Sarah Johnson
	assert.Len(t, sys.Clients.Filter("corp", FilterAll, FilterAll), 1)
	assert.Len(t, sys.Clients.Filter("startup.co", FilterAll, FilterAll), 1)

	// status and tag filters
	assert.Len(t, sys.Clients.Filter("", "inactive", FilterAll), 1)
	assert.Len(t, sys.Clients.Filter("", FilterAll, "tech"), 2)

	// all three predicates AND together
	assert.Len(t, sys.Clients.Filter("mike", "inactive", "tech"), 1)
	assert.Empty(t, sys.Clients.Filter("mike", "active", "tech"))
}

func TestClientStore_FilterPredicatesNeverWiden(t *testing.T) {
	sys, _, _ := newTestSystem(t)
	ctx := context.Background()

	sys.Clients.Add(ctx, Client{Name: "John Smith", Email: "john@tech.com", Company: "Tech", Status: ClientActive, Tags: []string{"tech"}})
	sys.Clients.Add(ctx, Client{Name: "John Doe", Email: "doe@corp.com", Company: "Corp", Status: ClientInactive, Tags: []string{"legacy"}})

	base := sys.Clients.Filter("john", FilterAll, FilterAll)
	narrowed := sys.Clients.Filter("john", "active", FilterAll)
	assert.LessOrEqual(t, len(narrowed), len(base))
	for _, c := range narrowed {
		assert.Equal(t, ClientActive, c.Status)
	}
}

func TestClientStore_AllTags(t *testing.T) {
	sys, _, _ := newTestSystem(t)
	ctx := context.Background()

	sys.Clients.Add(ctx, Client{Name: "A", Tags: []string{"tech", "enterprise"}})
	sys.Clients.Add(ctx, Client{Name: "B", Tags: []string{"saas", "tech"}})
	sys.Clients.Add(ctx, Client{Name: "C"})

	assert.ElementsMatch(t, []string{"tech", "enterprise", "saas"}, sys.Clients.AllTags())
}

func TestClientStore_PersistsAcrossReopen(t *testing.T) {
	sys, sink, _ := newTestSystem(t)
	ctx := context.Background()

	added := sys.Clients.Add(ctx, Client{Name: "Durable", Email: "d@x.com", Tags: []string{"tech"}})

	reopened := reopenSystem(t, sink)
	got, err := reopened.Clients.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)
}

func TestClientStore_PersistFailureLeavesMemoryAhead(t *testing.T) {
	sys, sink, _ := newTestSystem(t)
	ctx := context.Background()

	sys.Clients.Add(ctx, Client{Name: "Saved"})
	require.NoError(t, sys.Clients.LastPersistError())

	sink.SetFailWrites(true)
	lost := sys.Clients.Add(ctx, Client{Name: "Lost"})

	// mutation applied in memory even though the write failed
	_, err := sys.Clients.Get(lost.ID)
	require.NoError(t, err)
	assert.Error(t, sys.Clients.LastPersistError())

	// a reopened system only sees the last durable snapshot
	sink.SetFailWrites(false)
	reopened := reopenSystem(t, sink)
	_, err = reopened.Clients.Get(lost.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// next successful write clears the flag
	sys.Clients.Add(ctx, Client{Name: "Recovered"})
	assert.NoError(t, sys.Clients.LastPersistError())
}
