package lead

import (
	"context"
	"time"
)

// Tables exposed by the persistence gateway
const (
	TableLeads            = "leads"
	TableMeetingSummaries = "meeting_summaries"
)

// EventKind tags a change-feed notification
type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// Event is one change notification from the backing store. Exactly one
// of Lead/Summary is set for insert/update; delete events may carry
// only the row id. Delivery is at-least-once with no ordering guarantee
// across tables, so consumers resolve races by the row timestamps.
type Event struct {
	Kind    EventKind       `json:"kind"`
	Table   string          `json:"table"`
	ID      string          `json:"id"`
	At      time.Time       `json:"at"`
	Lead    *Lead           `json:"lead,omitempty"`
	Summary *MeetingSummary `json:"summary,omitempty"`
}

// Gateway is the persistence boundary: row-level CRUD on the leads and
// meeting_summaries tables plus a change-notification feed. Insert and
// update return the canonical row as stored (the gateway may normalize
// fields and assigns ids on insert).
type Gateway interface {
	LoadLeads(ctx context.Context) ([]Lead, error)
	InsertLead(ctx context.Context, l Lead) (Lead, error)
	UpdateLead(ctx context.Context, l Lead) (Lead, error)
	DeleteLead(ctx context.Context, id string) error

	InsertSummary(ctx context.Context, s MeetingSummary) (MeetingSummary, error)
	UpdateSummary(ctx context.Context, id, text string) (MeetingSummary, error)
	DeleteSummary(ctx context.Context, id string) error

	// Subscribe registers a change-feed consumer and returns a cancel
	// function. Callbacks run on the gateway's goroutine; they must not
	// block for long.
	Subscribe(fn func(Event)) (cancel func())
}
