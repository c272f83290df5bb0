package lead

import (
	"strings"
	"time"
)

// Draft carries everything a caller supplies when creating a lead.
// The gateway assigns the id; the repository stamps the timestamps.
type Draft struct {
	CompanyName   string `json:"company_name" validate:"required"`
	Email         string `json:"email" validate:"required"`
	ContactNumber string `json:"contact_number" validate:"required"`
	LeadSource    string `json:"lead_source" validate:"required"`
	AssignedTo    string `json:"assigned_to" validate:"required"`

	Requirements string     `json:"requirements"`
	Address      string     `json:"address"`
	Deadline     *time.Time `json:"deadline"`
	Potential    *int       `json:"potential" validate:"omitempty,gte=0,lte=100"`

	Status         Status         `json:"status"`
	ProposalStatus ProposalStatus `json:"proposal_status"`

	LastFollowUp *time.Time `json:"last_follow_up"`
	NextFollowUp *time.Time `json:"next_follow_up"`
	MeetingDate  *time.Time `json:"meeting_date"`
	MeetingTime  *string    `json:"meeting_time"`
}

func (d *Draft) validate() error {
	required := []struct {
		field string
		value string
	}{
		{"company_name", d.CompanyName},
		{"email", d.Email},
		{"contact_number", d.ContactNumber},
		{"lead_source", d.LeadSource},
		{"assigned_to", d.AssignedTo},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Reason: "must not be empty"}
		}
	}
	if d.Potential != nil && (*d.Potential < 0 || *d.Potential > 100) {
		return &ValidationError{Field: "potential", Reason: "must be between 0 and 100"}
	}
	if d.Status != "" && !d.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown status " + string(d.Status)}
	}
	if d.ProposalStatus != "" && !d.ProposalStatus.Valid() {
		return &ValidationError{Field: "proposal_status", Reason: "unknown proposal status " + string(d.ProposalStatus)}
	}
	return nil
}

// UpdateRequest is the HTTP body for lead updates. Meeting summaries are
// deliberately absent: they are managed by the meeting sub-repository.
type UpdateRequest struct {
	CompanyName   string `json:"company_name" validate:"required"`
	Email         string `json:"email" validate:"required"`
	ContactNumber string `json:"contact_number" validate:"required"`
	LeadSource    string `json:"lead_source" validate:"required"`
	AssignedTo    string `json:"assigned_to" validate:"required"`

	Requirements string     `json:"requirements"`
	Address      string     `json:"address"`
	Deadline     *time.Time `json:"deadline"`
	Potential    *int       `json:"potential" validate:"omitempty,gte=0,lte=100"`

	Status         Status         `json:"status" validate:"required"`
	ProposalStatus ProposalStatus `json:"proposal_status" validate:"required"`

	LastFollowUp *time.Time `json:"last_follow_up"`
	NextFollowUp *time.Time `json:"next_follow_up"`
	MeetingDate  *time.Time `json:"meeting_date"`
	MeetingTime  *string    `json:"meeting_time"`
}

// Apply copies the request onto an existing lead, leaving the immutable
// and repository-managed fields alone.
func (r *UpdateRequest) Apply(l Lead) Lead {
	l.CompanyName = r.CompanyName
	l.Email = r.Email
	l.ContactNumber = r.ContactNumber
	l.LeadSource = r.LeadSource
	l.AssignedTo = r.AssignedTo
	l.Requirements = r.Requirements
	l.Address = r.Address
	l.Deadline = r.Deadline
	l.Potential = r.Potential
	l.Status = r.Status
	l.ProposalStatus = r.ProposalStatus
	l.LastFollowUp = r.LastFollowUp
	l.NextFollowUp = r.NextFollowUp
	l.MeetingDate = r.MeetingDate
	l.MeetingTime = r.MeetingTime
	return l
}

// ListResponse wraps the collection snapshot
type ListResponse struct {
	Leads []Lead `json:"leads"`
	Total int    `json:"total"`
}

// ImportReport summarizes a bulk spreadsheet import
type ImportReport struct {
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
