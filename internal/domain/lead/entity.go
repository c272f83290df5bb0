package lead

import (
	"sort"
	"time"
)

// Status represents the pipeline stage of a lead
type Status string

const (
	StatusNew            Status = "new"
	StatusContacted      Status = "contacted"
	StatusNegotiation    Status = "negotiation"
	StatusPaymentPending Status = "payment_pending"
	StatusWon            Status = "won"
	StatusLost           Status = "lost"
)

// AllStatuses lists every pipeline status in display order
var AllStatuses = []Status{
	StatusNew,
	StatusContacted,
	StatusNegotiation,
	StatusPaymentPending,
	StatusWon,
	StatusLost,
}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusNegotiation, StatusPaymentPending, StatusWon, StatusLost:
		return true
	}
	return false
}

func (s Status) Label() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusContacted:
		return "Contacted"
	case StatusNegotiation:
		return "In Negotiation"
	case StatusPaymentPending:
		return "Payment Pending"
	case StatusWon:
		return "Closed Won"
	case StatusLost:
		return "Closed Lost"
	}
	return string(s)
}

func (s Status) Color() string {
	switch s {
	case StatusNew:
		return "#3B82F6"
	case StatusContacted:
		return "#F97316"
	case StatusNegotiation:
		return "#8B5CF6"
	case StatusPaymentPending:
		return "#EAB308"
	case StatusWon:
		return "#10B981"
	case StatusLost:
		return "#EF4444"
	}
	return "#6B7280"
}

// ProposalStatus tracks the proposal sub-pipeline, independent of Status
type ProposalStatus string

const (
	ProposalNotGiven ProposalStatus = "not_given"
	ProposalGiven    ProposalStatus = "given"
	ProposalApproved ProposalStatus = "approved"
	ProposalRejected ProposalStatus = "rejected"
)

var AllProposalStatuses = []ProposalStatus{
	ProposalNotGiven,
	ProposalGiven,
	ProposalApproved,
	ProposalRejected,
}

func (p ProposalStatus) Valid() bool {
	switch p {
	case ProposalNotGiven, ProposalGiven, ProposalApproved, ProposalRejected:
		return true
	}
	return false
}

func (p ProposalStatus) Label() string {
	switch p {
	case ProposalNotGiven:
		return "Not Given"
	case ProposalGiven:
		return "Given"
	case ProposalApproved:
		return "Approved"
	case ProposalRejected:
		return "Rejected"
	}
	return string(p)
}

func (p ProposalStatus) Color() string {
	switch p {
	case ProposalGiven:
		return "#3B82F6"
	case ProposalApproved:
		return "#10B981"
	case ProposalRejected:
		return "#EF4444"
	}
	return "#6B7280"
}

// Lead represents one sales opportunity
type Lead struct {
	ID            string `json:"id"`
	CompanyName   string `json:"company_name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number"`
	LeadSource    string `json:"lead_source"`
	AssignedTo    string `json:"assigned_to"`

	Requirements string     `json:"requirements,omitempty"`
	Address      string     `json:"address,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`

	// Potential is a percentage in [0,100]; nil means not estimated
	Potential *int `json:"potential,omitempty"`

	Status         Status         `json:"status"`
	ProposalStatus ProposalStatus `json:"proposal_status"`

	LastFollowUp *time.Time `json:"last_follow_up,omitempty"`
	NextFollowUp *time.Time `json:"next_follow_up,omitempty"`

	// Scheduled meeting, separate from the follow-up dates.
	// MeetingTime is an HH:MM clock value, not an instant.
	MeetingDate *time.Time `json:"meeting_date,omitempty"`
	MeetingTime *string    `json:"meeting_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// MeetingSummaries is owned by the lead for display but persisted
	// as independent rows keyed by LeadID. Presented meeting_date desc.
	MeetingSummaries []MeetingSummary `json:"meeting_summaries"`
}

// PotentialOrZero treats a missing potential as 0
func (l *Lead) PotentialOrZero() int {
	if l.Potential == nil {
		return 0
	}
	return *l.Potential
}

// Clone returns a deep copy so callers cannot mutate repository state
func (l *Lead) Clone() Lead {
	out := *l
	if l.Potential != nil {
		v := *l.Potential
		out.Potential = &v
	}
	out.Deadline = cloneTime(l.Deadline)
	out.LastFollowUp = cloneTime(l.LastFollowUp)
	out.NextFollowUp = cloneTime(l.NextFollowUp)
	out.MeetingDate = cloneTime(l.MeetingDate)
	if l.MeetingTime != nil {
		v := *l.MeetingTime
		out.MeetingTime = &v
	}
	out.MeetingSummaries = make([]MeetingSummary, len(l.MeetingSummaries))
	copy(out.MeetingSummaries, l.MeetingSummaries)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// MeetingSummary is one note tied to a lead. LeadID is a back-reference,
// not ownership: the note's lifecycle is independent of lead edits, but
// rows are removed together with their lead.
type MeetingSummary struct {
	ID          string     `json:"id"`
	LeadID      string     `json:"lead_id"`
	Summary     string     `json:"summary"`
	MeetingDate *time.Time `json:"meeting_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SortSummaries orders notes by meeting date descending; nil dates sort
// as oldest, so they come last.
func SortSummaries(summaries []MeetingSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].MeetingDate, summaries[j].MeetingDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
}
