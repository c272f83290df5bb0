package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"leadcrm/internal/domain/lead"
)

// Store is the persistence gateway: row-level CRUD on the leads and
// meeting_summaries tables plus an in-process change feed. Every
// confirmed mutation is published to subscribers, which is how the
// lead repository and the websocket hub hear about changes.
type Store struct {
	db *gorm.DB

	mu      sync.RWMutex
	subs    map[int]func(lead.Event)
	nextSub int
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, subs: make(map[int]func(lead.Event))}
}

// Migrate creates or updates both tables
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&leadModel{}, &meetingSummaryModel{})
}

type leadModel struct {
	ID            string `gorm:"column:id;primaryKey"`
	CompanyName   string `gorm:"column:company_name"`
	Email         string `gorm:"column:email"`
	ContactNumber string `gorm:"column:contact_number"`
	LeadSource    string `gorm:"column:lead_source"`
	AssignedTo    string `gorm:"column:assigned_to"`

	Requirements string     `gorm:"column:requirements;type:text"`
	Address      string     `gorm:"column:address;type:text"`
	Deadline     *time.Time `gorm:"column:deadline"`
	Potential    *int       `gorm:"column:potential"`

	Status         string `gorm:"column:status;index"`
	ProposalStatus string `gorm:"column:proposal_status"`

	LastFollowUp *time.Time `gorm:"column:last_follow_up"`
	NextFollowUp *time.Time `gorm:"column:next_follow_up"`
	MeetingDate  *time.Time `gorm:"column:meeting_date"`
	MeetingTime  *string    `gorm:"column:meeting_time"`

	// Timestamps are stamped by the caller, not by gorm: the repository
	// layer relies on them for last-write-wins resolution.
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime:false"`

	Summaries []meetingSummaryModel `gorm:"foreignKey:LeadID;references:ID;constraint:OnDelete:CASCADE"`
}

func (leadModel) TableName() string { return "leads" }

type meetingSummaryModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	LeadID      string     `gorm:"column:lead_id;index"`
	Summary     string     `gorm:"column:summary;type:text"`
	MeetingDate *time.Time `gorm:"column:meeting_date"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime:false"`
}

func (meetingSummaryModel) TableName() string { return "meeting_summaries" }

func toDomainLead(m leadModel) lead.Lead {
	summaries := make([]lead.MeetingSummary, 0, len(m.Summaries))
	for _, sm := range m.Summaries {
		summaries = append(summaries, toDomainSummary(sm))
	}
	return lead.Lead{
		ID:               m.ID,
		CompanyName:      m.CompanyName,
		Email:            m.Email,
		ContactNumber:    m.ContactNumber,
		LeadSource:       m.LeadSource,
		AssignedTo:       m.AssignedTo,
		Requirements:     m.Requirements,
		Address:          m.Address,
		Deadline:         m.Deadline,
		Potential:        m.Potential,
		Status:           lead.Status(m.Status),
		ProposalStatus:   lead.ProposalStatus(m.ProposalStatus),
		LastFollowUp:     m.LastFollowUp,
		NextFollowUp:     m.NextFollowUp,
		MeetingDate:      m.MeetingDate,
		MeetingTime:      m.MeetingTime,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		MeetingSummaries: summaries,
	}
}

func toLeadModel(l lead.Lead) leadModel {
	return leadModel{
		ID:             l.ID,
		CompanyName:    l.CompanyName,
		Email:          l.Email,
		ContactNumber:  l.ContactNumber,
		LeadSource:     l.LeadSource,
		AssignedTo:     l.AssignedTo,
		Requirements:   l.Requirements,
		Address:        l.Address,
		Deadline:       l.Deadline,
		Potential:      l.Potential,
		Status:         string(l.Status),
		ProposalStatus: string(l.ProposalStatus),
		LastFollowUp:   l.LastFollowUp,
		NextFollowUp:   l.NextFollowUp,
		MeetingDate:    l.MeetingDate,
		MeetingTime:    l.MeetingTime,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func toDomainSummary(m meetingSummaryModel) lead.MeetingSummary {
	return lead.MeetingSummary{
		ID:          m.ID,
		LeadID:      m.LeadID,
		Summary:     m.Summary,
		MeetingDate: m.MeetingDate,
		CreatedAt:   m.CreatedAt,
	}
}

// LoadLeads returns every lead with its summaries, newest first
func (s *Store) LoadLeads(ctx context.Context) ([]lead.Lead, error) {
	var models []leadModel
	tx := s.db.WithContext(ctx).Preload("Summaries").Order("created_at DESC").Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]lead.Lead, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainLead(m))
	}
	return out, nil
}

// InsertLead stores a new row, assigning the id
func (s *Store) InsertLead(ctx context.Context, l lead.Lead) (lead.Lead, error) {
	m := toLeadModel(l)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if tx := s.db.WithContext(ctx).Create(&m); tx.Error != nil {
		if isDuplicate(tx.Error) {
			return lead.Lead{}, &lead.ConflictError{Entity: "lead", ID: m.ID}
		}
		return lead.Lead{}, tx.Error
	}

	row := toDomainLead(m)
	s.publish(lead.Event{Kind: lead.EventInsert, Table: lead.TableLeads, ID: row.ID, At: row.UpdatedAt, Lead: &row})
	return row, nil
}

// UpdateLead rewrites the lead-table columns of an existing row. The
// summaries association is never touched here.
func (s *Store) UpdateLead(ctx context.Context, l lead.Lead) (lead.Lead, error) {
	var existing leadModel
	if tx := s.db.WithContext(ctx).First(&existing, "id = ?", l.ID); tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return lead.Lead{}, &lead.NotFoundError{Entity: "lead", ID: l.ID}
		}
		return lead.Lead{}, tx.Error
	}

	m := toLeadModel(l)
	m.CreatedAt = existing.CreatedAt
	if tx := s.db.WithContext(ctx).Save(&m); tx.Error != nil {
		return lead.Lead{}, tx.Error
	}

	row := toDomainLead(m)
	s.publish(lead.Event{Kind: lead.EventUpdate, Table: lead.TableLeads, ID: row.ID, At: row.UpdatedAt, Lead: &row})
	return row, nil
}

// DeleteLead removes a lead and cascades over its summaries
func (s *Store) DeleteLead(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if res := tx.Where("lead_id = ?", id).Delete(&meetingSummaryModel{}); res.Error != nil {
			return res.Error
		}
		res := tx.Where("id = ?", id).Delete(&leadModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &lead.NotFoundError{Entity: "lead", ID: id}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(lead.Event{Kind: lead.EventDelete, Table: lead.TableLeads, ID: id, At: time.Now()})
	return nil
}

// InsertSummary stores a note for an existing lead
func (s *Store) InsertSummary(ctx context.Context, sum lead.MeetingSummary) (lead.MeetingSummary, error) {
	var parent leadModel
	if tx := s.db.WithContext(ctx).First(&parent, "id = ?", sum.LeadID); tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return lead.MeetingSummary{}, &lead.NotFoundError{Entity: "lead", ID: sum.LeadID}
		}
		return lead.MeetingSummary{}, tx.Error
	}

	m := meetingSummaryModel{
		ID:          sum.ID,
		LeadID:      sum.LeadID,
		Summary:     sum.Summary,
		MeetingDate: sum.MeetingDate,
		CreatedAt:   sum.CreatedAt,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if tx := s.db.WithContext(ctx).Create(&m); tx.Error != nil {
		if isDuplicate(tx.Error) {
			return lead.MeetingSummary{}, &lead.ConflictError{Entity: "meeting summary", ID: m.ID}
		}
		return lead.MeetingSummary{}, tx.Error
	}

	row := toDomainSummary(m)
	s.publish(lead.Event{Kind: lead.EventInsert, Table: lead.TableMeetingSummaries, ID: row.ID, At: row.CreatedAt, Summary: &row})
	return row, nil
}

// UpdateSummary rewrites a note's text
func (s *Store) UpdateSummary(ctx context.Context, id, text string) (lead.MeetingSummary, error) {
	var m meetingSummaryModel
	if tx := s.db.WithContext(ctx).First(&m, "id = ?", id); tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return lead.MeetingSummary{}, &lead.NotFoundError{Entity: "meeting summary", ID: id}
		}
		return lead.MeetingSummary{}, tx.Error
	}

	m.Summary = text
	if tx := s.db.WithContext(ctx).Save(&m); tx.Error != nil {
		return lead.MeetingSummary{}, tx.Error
	}

	row := toDomainSummary(m)
	s.publish(lead.Event{Kind: lead.EventUpdate, Table: lead.TableMeetingSummaries, ID: row.ID, At: time.Now(), Summary: &row})
	return row, nil
}

// DeleteSummary removes a note; unknown ids report NotFoundError so the
// caller can decide whether that matters
func (s *Store) DeleteSummary(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&meetingSummaryModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &lead.NotFoundError{Entity: "meeting summary", ID: id}
	}

	s.publish(lead.Event{Kind: lead.EventDelete, Table: lead.TableMeetingSummaries, ID: id, At: time.Now()})
	return nil
}

// Subscribe registers a change-feed consumer; the returned cancel
// removes it. Callbacks run synchronously on the mutating goroutine.
func (s *Store) Subscribe(fn func(lead.Event)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) publish(ev lead.Event) {
	s.mu.RLock()
	fns := make([]func(lead.Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// isDuplicate recognises unique-key violations from postgres (23505)
// and the sqlite fallback driver
func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
