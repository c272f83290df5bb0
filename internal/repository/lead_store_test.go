package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"leadcrm/internal/database"
	"leadcrm/internal/domain/lead"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:store_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	db.Logger = logger.Default.LogMode(logger.Silent)

	store := NewStore(db)
	require.NoError(t, store.Migrate())
	return store
}

func sampleLead(id string) lead.Lead {
	now := time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC)
	return lead.Lead{
		ID:             id,
		CompanyName:    "Tech Solutions Inc",
		Email:          "info@techsolutions.test",
		ContactNumber:  "+1234567890",
		LeadSource:     "website",
		AssignedTo:     "alice",
		Status:         lead.StatusNew,
		ProposalStatus: lead.ProposalNotGiven,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestInsertLead_AssignsIDAndPublishes(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	var events []lead.Event
	cancel := store.Subscribe(func(ev lead.Event) { events = append(events, ev) })
	defer cancel()

	l := sampleLead("")
	row, err := store.InsertLead(ctx, l)

	require.NoError(t, err)
	assert.NotEmpty(t, row.ID)
	assert.Equal(t, "Tech Solutions Inc", row.CompanyName)

	require.Len(t, events, 1)
	assert.Equal(t, lead.EventInsert, events[0].Kind)
	assert.Equal(t, lead.TableLeads, events[0].Table)
	assert.Equal(t, row.ID, events[0].ID)
	require.NotNil(t, events[0].Lead)
	assert.Equal(t, row.ID, events[0].Lead.ID)
}

func TestInsertLead_DuplicateIDConflicts(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.InsertLead(ctx, sampleLead("lead-1"))
	require.NoError(t, err)

	_, err = store.InsertLead(ctx, sampleLead("lead-1"))

	var cf *lead.ConflictError
	assert.ErrorAs(t, err, &cf)
	assert.Equal(t, "lead-1", cf.ID)
}

func TestLoadLeads_NewestFirstWithSummaries(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	older := sampleLead("lead-old")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	_, err := store.InsertLead(ctx, older)
	require.NoError(t, err)
	_, err = store.InsertLead(ctx, sampleLead("lead-new"))
	require.NoError(t, err)

	_, err = store.InsertSummary(ctx, lead.MeetingSummary{LeadID: "lead-old", Summary: "kickoff"})
	require.NoError(t, err)

	rows, err := store.LoadLeads(ctx)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "lead-new", rows[0].ID)
	assert.Equal(t, "lead-old", rows[1].ID)
	require.Len(t, rows[1].MeetingSummaries, 1)
	assert.Equal(t, "kickoff", rows[1].MeetingSummaries[0].Summary)
}

func TestUpdateLead_PersistsAndKeepsCreatedAt(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	original := sampleLead("lead-1")
	_, err := store.InsertLead(ctx, original)
	require.NoError(t, err)

	changed := original
	changed.CompanyName = "Renamed Corp"
	changed.Status = lead.StatusNegotiation
	changed.CreatedAt = time.Time{} // the store must restore this
	changed.UpdatedAt = original.UpdatedAt.Add(time.Minute)

	row, err := store.UpdateLead(ctx, changed)

	require.NoError(t, err)
	assert.Equal(t, "Renamed Corp", row.CompanyName)
	assert.Equal(t, original.CreatedAt.UTC(), row.CreatedAt.UTC())

	rows, err := store.LoadLeads(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, lead.StatusNegotiation, rows[0].Status)
}

func TestUpdateLead_NotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.UpdateLead(context.Background(), sampleLead("ghost"))

	var nf *lead.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteLead_CascadesSummaries(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.InsertLead(ctx, sampleLead("lead-1"))
	require.NoError(t, err)
	sum, err := store.InsertSummary(ctx, lead.MeetingSummary{LeadID: "lead-1", Summary: "note"})
	require.NoError(t, err)

	var events []lead.Event
	cancel := store.Subscribe(func(ev lead.Event) { events = append(events, ev) })
	defer cancel()

	require.NoError(t, store.DeleteLead(ctx, "lead-1"))

	rows, err := store.LoadLeads(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	// the summary row is gone too
	err = store.DeleteSummary(ctx, sum.ID)
	var nf *lead.NotFoundError
	assert.ErrorAs(t, err, &nf)

	require.Len(t, events, 1)
	assert.Equal(t, lead.EventDelete, events[0].Kind)
	assert.Equal(t, "lead-1", events[0].ID)
}

func TestDeleteLead_NotFound(t *testing.T) {
	store := setupStore(t)

	err := store.DeleteLead(context.Background(), "ghost")

	var nf *lead.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestInsertSummary_RequiresParent(t *testing.T) {
	store := setupStore(t)

	_, err := store.InsertSummary(context.Background(), lead.MeetingSummary{LeadID: "ghost", Summary: "orphan"})

	var nf *lead.NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Equal(t, "ghost", nf.ID)
}

func TestUpdateSummary(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.InsertLead(ctx, sampleLead("lead-1"))
	require.NoError(t, err)
	sum, err := store.InsertSummary(ctx, lead.MeetingSummary{LeadID: "lead-1", Summary: "first draft"})
	require.NoError(t, err)

	row, err := store.UpdateSummary(ctx, sum.ID, "revised")

	require.NoError(t, err)
	assert.Equal(t, "revised", row.Summary)
	assert.Equal(t, "lead-1", row.LeadID)

	_, err = store.UpdateSummary(ctx, "ghost", "text")
	var nf *lead.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	calls := 0
	cancel := store.Subscribe(func(lead.Event) { calls++ })

	_, err := store.InsertLead(ctx, sampleLead("lead-1"))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	cancel()
	_, err = store.InsertLead(ctx, sampleLead("lead-2"))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
