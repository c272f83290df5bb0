package meeting

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"leadcrm/internal/domain/lead"
)

// Service manages the notes attached to a lead. Rows live independently
// in the store but every confirmed change is spliced back into the
// parent lead's view through the repository.
type Service struct {
	gw   lead.Gateway
	repo *lead.Repository
	now  func() time.Time
}

func NewService(gw lead.Gateway, repo *lead.Repository) *Service {
	return &Service{gw: gw, repo: repo, now: time.Now}
}

// Add creates a note dated now and splices it into the parent lead
func (s *Service) Add(ctx context.Context, leadID, text string) (lead.MeetingSummary, error) {
	if strings.TrimSpace(text) == "" {
		return lead.MeetingSummary{}, &lead.ValidationError{Field: "summary", Reason: "must not be blank"}
	}
	if _, err := s.repo.Get(leadID); err != nil {
		return lead.MeetingSummary{}, err
	}

	now := s.now()
	confirmed, err := s.gw.InsertSummary(ctx, lead.MeetingSummary{
		LeadID:      leadID,
		Summary:     text,
		MeetingDate: &now,
		CreatedAt:   now,
	})
	if err != nil {
		return lead.MeetingSummary{}, wrapGatewayErr("insert summary", err)
	}

	s.repo.MergeSummary(confirmed)
	return confirmed, nil
}

// Update rewrites a note's text
func (s *Service) Update(ctx context.Context, id, text string) (lead.MeetingSummary, error) {
	if strings.TrimSpace(text) == "" {
		return lead.MeetingSummary{}, &lead.ValidationError{Field: "summary", Reason: "must not be blank"}
	}

	confirmed, err := s.gw.UpdateSummary(ctx, id, text)
	if err != nil {
		return lead.MeetingSummary{}, wrapGatewayErr("update summary", err)
	}

	s.repo.MergeSummary(confirmed)
	return confirmed, nil
}

// Delete removes a note. It is idempotent from the caller's side:
// deleting an unknown id succeeds, and a gateway failure is logged but
// not escalated so optimistic UI flows stay simple.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.repo.DropSummary(id)

	if err := s.gw.DeleteSummary(ctx, id); err != nil {
		var nf *lead.NotFoundError
		if !errors.As(err, &nf) {
			log.Printf("meeting: delete summary id=%s gateway failed: %v", id, err)
		}
	}
	return nil
}

func wrapGatewayErr(op string, err error) error {
	var nf *lead.NotFoundError
	if errors.As(err, &nf) {
		return err
	}
	return &lead.GatewayError{Op: op, Err: err}
}
