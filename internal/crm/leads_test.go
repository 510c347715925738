package crm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadStore_AddDefaults(t *testing.T) {
	sys, _, _ := newTestSystem(t)

	added := sys.Leads.Add(context.Background(), Lead{Title: "Bare Lead", Value: -500})
	assert.Equal(t, StageNew, added.Stage)
	assert.Equal(t, PriorityMedium, added.Priority)
	assert.Equal(t, float64(0), added.Value, "negative value clamps to zero")

	got, err := sys.Leads.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)
}

func TestLeadStore_MoveStageShiftsValueNotPipeline(t *testing.T) {
	sys, _, _ := newTestSystem(t)
	ctx := context.Background()

	c := sys.Clients.Add(ctx, Client{Name: "John Smith"})
	l := sys.CreateLead(ctx, Lead{Title: "Enterprise License", ClientID: c.ID, Value: 1000, Stage: StageNew})

	assert.Equal(t, float64(1000), sys.Leads.StageValue(StageNew))

	sys.Leads.MoveStage(ctx, l.ID, StageWon)

	assert.Equal(t, float64(0), sys.Leads.StageValue(StageNew))
	assert.Equal(t, float64(1000), sys.Leads.StageValue(StageWon))
	assert.Equal(t, float64(1000), sys.Leads.PipelineValue(), "pipeline value counts every stage")
}

func TestLeadStore_MoveStageBackwardAllowed(t *testing.T) {
	sys, _, clock := newTestSystem(t)
	ctx := context.Background()

	l := sys.Leads.Add(ctx, Lead{Title: "Reopened", Stage: StageLost})
	clock.Advance(time.Minute)
	sys.Leads.MoveStage(ctx, l.ID, StageNew)

	got, err := sys.Leads.Get(l.ID)
	require.NoError(t, err)
	assert.Equal(t, StageNew, got.Stage)
	assert.True(t, got.UpdatedAt.After(l.UpdatedAt))
}

func TestLeadStore_MoveStageRejectsUnknownStage(t *testing.T) {
	sys, _, _ := newTestSystem(t)
	ctx := context.Background()

	l := sys.Leads.Add(ctx, Lead{Title: "Stays Put", Stage: StageProposal})
	sys.Leads.MoveStage(ctx, l.ID, Stage("negotiation"))

	got, err := sys.Leads.Get(l.ID)
	require.NoError(t, err)
	assert.Equal(t, StageProposal, got.Stage)
}

func TestLeadStore_MoveStageUnknownIDIsNoOp(t *testing.T) {
	sys, sink, _ := newTestSystem(t)
	ctx := context.Background()

	sys.Leads.Add(ctx, Lead{Title: "Anchor"})
	writes := sink.SaveCount()
	sys.Leads.MoveStage(ctx, "nonexistent", StageWon)
	assert.Equal(t, writes, sink.SaveCount())
}

func TestLeadStore_ByStageKeepsInsertionOrder(t *testing.T) {
	sys, _, _ := newTestSystem(t)
	ctx := context.Background()

	first := sys.Leads.Add(ctx, Lead{Title: "First", Stage: StageNew})
	sys.Leads.Add(ctx, Lead{Title: "Other", Stage: StageWon})
	second := sys.Leads.Add(ctx, Lead{Title: "Second", Stage: StageNew})

	got := sys.Leads.ByStage(StageNew)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
}

func TestLeadStore_ByClient(t *testing.T) {
	sys, _, _ := newTestSystem(t)
	ctx := context.Background()

	a := sys.Clients.Add(ctx, Client{Name: "A"})
	b := sys.Clients.Add(ctx, Client{Name: "B"})
	sys.CreateLead(ctx, Lead{Title: "L1", ClientID: a.ID})
	sys.CreateLead(ctx, Lead{Title: "L2", ClientID: b.ID})
	sys.CreateLead(ctx, Lead{Title: "L3", ClientID: a.ID})

	assert.Len(t, sys.Leads.ByClient(a.ID), 2)
	assert.Len(t, sys.Leads.ByClient(b.ID), 1)
	assert.Empty(t, sys.Leads.ByClient("unknown"))
}

func TestLeadStore_PipelineValueEqualsStageSum(t *testing.T) {
	sys, _, _ := newTestSystem(t)
	ctx := context.Background()

	sys.Leads.Add(ctx, Lead{Title: "A", Stage: StageNew, Value: 25000})
	sys.Leads.Add(ctx, Lead{Title: "B", Stage: StageContacted, Value: 12000})
	sys.Leads.Add(ctx, Lead{Title: "C", Stage: StageProposal, Value: 50000})
	sys.Leads.Add(ctx, Lead{Title: "D", Stage: StageWon, Value: 8000})
	sys.Leads.Add(ctx, Lead{Title: "E", Stage: StageLost, Value: 3000})

	var sum float64
	count := 0
	for _, stage := range Stages {
		sum += sys.Leads.StageValue(stage)
		count += sys.Leads.CountByStage(stage)
	}
	assert.Equal(t, sys.Leads.PipelineValue(), sum)
	assert.Equal(t, 5, count)
}

func TestLeadStore_UpdateClearExpectedCloseDate(t *testing.T) {
	sys, _, _ := newTestSystem(t)
	ctx := context.Background()

	closeDate := testEpoch.Add(30 * 24 * time.Hour)
	l := sys.Leads.Add(ctx, Lead{Title: "Dated", ExpectedCloseDate: &closeDate})

	sys.Leads.Update(ctx, l.ID, LeadPatch{ClearExpectedCloseDate: true})

	got, err := sys.Leads.Get(l.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ExpectedCloseDate)
}

func TestLeadStore_PersistsAcrossReopen(t *testing.T) {
	sys, sink, _ := newTestSystem(t)
	ctx := context.Background()

	l := sys.Leads.Add(ctx, Lead{Title: "Durable", Stage: StageProposal, Value: 50000})
	sys.Leads.MoveStage(ctx, l.ID, StageWon)

	reopened := reopenSystem(t, sink)
	got, err := reopened.Leads.Get(l.ID)
	require.NoError(t, err)
	assert.Equal(t, StageWon, got.Stage)
	assert.Equal(t, float64(50000), reopened.Leads.PipelineValue())
}
