// ABOUTME: Shared test helpers for the crm package
// ABOUTME: Builds a System over a memory sink and a deterministic id/clock service

package crm

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Codie-king/mini-crm/internal/ident"
	"github.com/Codie-king/mini-crm/internal/persist"
)

// testEpoch is the deterministic clock's starting instant.
var testEpoch = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSystem(t *testing.T) (*System, *persist.MemorySink, *ident.SequenceService) {
	t.Helper()

	sink := persist.NewMemorySink()
	clock := ident.NewSequenceService(testEpoch)

	sys, err := New(context.Background(), sink, clock, testLogger())
	require.NoError(t, err)
	return sys, sink, clock
}

// reopenSystem builds a fresh System over the same sink, simulating a
// process restart.
func reopenSystem(t *testing.T, sink persist.Sink) *System {
	t.Helper()

	sys, err := New(context.Background(), sink, ident.NewSequenceService(testEpoch), testLogger())
	require.NoError(t, err)
	return sys
}
