package ident

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemService_UniqueIDs(t *testing.T) {
	svc := NewSystemService()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := svc.NewID()
		require.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestSystemService_NowIsUTC(t *testing.T) {
	svc := NewSystemService()
	now := svc.Now()
	assert.Equal(t, time.UTC, now.Location())
}

func TestSequenceService(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	svc := NewSequenceService(start)

	assert.Equal(t, "id-1", svc.NewID())
	assert.Equal(t, "id-2", svc.NewID())
	assert.Equal(t, start, svc.Now())

	svc.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), svc.Now())
}
