package lead

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"
)

// Repository owns the in-process lead collection. It applies mutations
// against the persistence gateway and merges change-feed events back in,
// so reads never touch the network. One repository instance serves one
// client process; the mutex only guards against the async feed callback.
//
// Delete is optimistic by design: the row leaves the local collection
// before the gateway confirms, and a gateway failure is surfaced without
// rolling the removal back. Until the next full Load the local state may
// diverge from the store.
type Repository struct {
	mu         sync.RWMutex
	gw         Gateway
	leads      []*Lead
	tombstones map[string]time.Time

	now func() time.Time
}

func NewRepository(gw Gateway) *Repository {
	return &Repository{
		gw:         gw,
		tombstones: make(map[string]time.Time),
		now:        time.Now,
	}
}

// Load replaces the local collection with the gateway's current rows,
// newest first. Tombstones are cleared: the store is authoritative again.
func (r *Repository) Load(ctx context.Context) error {
	rows, err := r.gw.LoadLeads(ctx)
	if err != nil {
		return &GatewayError{Op: "load", Err: err}
	}

	leads := make([]*Lead, 0, len(rows))
	for i := range rows {
		l := rows[i].Clone()
		if l.MeetingSummaries == nil {
			l.MeetingSummaries = []MeetingSummary{}
		}
		SortSummaries(l.MeetingSummaries)
		leads = append(leads, &l)
	}
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads = leads
	r.tombstones = make(map[string]time.Time)
	return nil
}

// List returns a snapshot of the collection, created_at descending.
// It never blocks on the network.
func (r *Repository) List() []Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Lead, 0, len(r.leads))
	for _, l := range r.leads {
		out = append(out, l.Clone())
	}
	return out
}

// Get returns one lead from the local snapshot
func (r *Repository) Get(id string) (Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if l := r.find(id); l != nil {
		return l.Clone(), nil
	}
	return Lead{}, &NotFoundError{Entity: "lead", ID: id}
}

// Create validates the draft, sends it to the gateway and prepends the
// canonical row. Creation is not optimistic: only confirmed rows enter
// the collection, so ids are always gateway-assigned.
func (r *Repository) Create(ctx context.Context, d Draft) (Lead, error) {
	if err := d.validate(); err != nil {
		return Lead{}, err
	}

	now := r.now()
	l := Lead{
		CompanyName:      d.CompanyName,
		Email:            d.Email,
		ContactNumber:    d.ContactNumber,
		LeadSource:       d.LeadSource,
		AssignedTo:       d.AssignedTo,
		Requirements:     d.Requirements,
		Address:          d.Address,
		Deadline:         d.Deadline,
		Potential:        d.Potential,
		Status:           d.Status,
		ProposalStatus:   d.ProposalStatus,
		LastFollowUp:     d.LastFollowUp,
		NextFollowUp:     d.NextFollowUp,
		MeetingDate:      d.MeetingDate,
		MeetingTime:      d.MeetingTime,
		CreatedAt:        now,
		UpdatedAt:        now,
		MeetingSummaries: []MeetingSummary{},
	}
	if l.Status == "" {
		l.Status = StatusNew
	}
	if l.ProposalStatus == "" {
		l.ProposalStatus = ProposalNotGiven
	}

	confirmed, err := r.gw.InsertLead(ctx, l)
	if err != nil {
		return Lead{}, wrapGatewayErr("insert lead", err)
	}
	if confirmed.MeetingSummaries == nil {
		confirmed.MeetingSummaries = []MeetingSummary{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cur := r.find(confirmed.ID); cur != nil {
		// The change feed beat us to it; keep the confirmed row.
		*cur = confirmed
	} else {
		c := confirmed.Clone()
		r.leads = append([]*Lead{&c}, r.leads...)
	}
	return confirmed.Clone(), nil
}

// Update sends the lead-table fields to the gateway and replaces the
// local entry with the confirmed row, keeping its meeting summaries and
// array position. The local collection is untouched on failure. A
// confirmation older than what a later mutation already wrote locally
// is discarded, same last-write-wins rule as Reconcile.
func (r *Repository) Update(ctx context.Context, in Lead) (Lead, error) {
	r.mu.RLock()
	cur := r.find(in.ID)
	if cur == nil {
		r.mu.RUnlock()
		return Lead{}, &NotFoundError{Entity: "lead", ID: in.ID}
	}
	in.CreatedAt = cur.CreatedAt
	r.mu.RUnlock()

	if !in.Status.Valid() {
		return Lead{}, &ValidationError{Field: "status", Reason: "unknown status " + string(in.Status)}
	}
	if !in.ProposalStatus.Valid() {
		return Lead{}, &ValidationError{Field: "proposal_status", Reason: "unknown proposal status " + string(in.ProposalStatus)}
	}
	if in.Potential != nil && (*in.Potential < 0 || *in.Potential > 100) {
		return Lead{}, &ValidationError{Field: "potential", Reason: "must be between 0 and 100"}
	}

	in.UpdatedAt = r.now()
	in.MeetingSummaries = nil // summaries travel through the meeting sub-repository

	confirmed, err := r.gw.UpdateLead(ctx, in)
	if err != nil {
		return Lead{}, wrapGatewayErr("update lead", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	cur = r.find(in.ID)
	if cur == nil {
		// Deleted while the update was in flight; the delete wins.
		return confirmed.Clone(), nil
	}
	if cur.UpdatedAt.After(confirmed.UpdatedAt) {
		// A newer mutation completed first; drop the stale confirmation.
		return cur.Clone(), nil
	}
	confirmed.MeetingSummaries = cur.MeetingSummaries
	*cur = confirmed
	return cur.Clone(), nil
}

// Delete removes the lead locally right away, then issues the gateway
// delete. A failed gateway call is surfaced but the local removal is not
// rolled back. The delete intent is tombstoned so a stale change-feed
// row cannot resurrect the lead.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	cur := r.find(id)
	if cur == nil {
		r.mu.Unlock()
		return &NotFoundError{Entity: "lead", ID: id}
	}
	r.tombstones[id] = r.now()
	r.remove(id)
	r.mu.Unlock()

	if err := r.gw.DeleteLead(ctx, id); err != nil {
		log.Printf("lead: delete id=%s gateway failed, local removal kept: %v", id, err)
		return wrapGatewayErr("delete lead", err)
	}
	return nil
}

// Reconcile merges one externally sourced change event. It is idempotent
// and resolves races by last-write-wins on the row's updated_at. Bad
// events are logged and dropped; they never stop the feed.
func (r *Repository) Reconcile(ev Event) {
	switch ev.Table {
	case TableLeads:
		r.reconcileLead(ev)
	case TableMeetingSummaries:
		r.reconcileSummary(ev)
	default:
		log.Printf("lead: reconcile dropped event for unknown table %q", ev.Table)
	}
}

func (r *Repository) reconcileLead(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case EventInsert, EventUpdate:
		if ev.Lead == nil {
			log.Printf("lead: reconcile dropped %s event without a row", ev.Kind)
			return
		}
		row := ev.Lead.Clone()
		if ts, ok := r.tombstones[row.ID]; ok {
			if !row.UpdatedAt.After(ts) {
				return // stale row for a deleted lead
			}
			delete(r.tombstones, row.ID)
		}
		if cur := r.find(row.ID); cur != nil {
			if row.UpdatedAt.Before(cur.UpdatedAt) {
				return // stale push, local state is newer
			}
			if len(row.MeetingSummaries) == 0 {
				row.MeetingSummaries = cur.MeetingSummaries
			} else {
				SortSummaries(row.MeetingSummaries)
			}
			*cur = row
			return
		}
		if row.MeetingSummaries == nil {
			row.MeetingSummaries = []MeetingSummary{}
		}
		SortSummaries(row.MeetingSummaries)
		r.leads = append([]*Lead{&row}, r.leads...)

	case EventDelete:
		id := ev.ID
		if id == "" && ev.Lead != nil {
			id = ev.Lead.ID
		}
		if id == "" {
			log.Printf("lead: reconcile dropped delete event without an id")
			return
		}
		at := ev.At
		if at.IsZero() {
			at = r.now()
		}
		r.tombstones[id] = at
		r.remove(id)

	default:
		log.Printf("lead: reconcile dropped event with unknown kind %q", ev.Kind)
	}
}

func (r *Repository) reconcileSummary(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case EventInsert, EventUpdate:
		if ev.Summary == nil {
			log.Printf("lead: reconcile dropped summary %s event without a row", ev.Kind)
			return
		}
		r.mergeSummary(*ev.Summary)
	case EventDelete:
		id := ev.ID
		if id == "" && ev.Summary != nil {
			id = ev.Summary.ID
		}
		if id == "" {
			log.Printf("lead: reconcile dropped summary delete event without an id")
			return
		}
		r.dropSummary(id)
	default:
		log.Printf("lead: reconcile dropped summary event with unknown kind %q", ev.Kind)
	}
}

// MergeSummary splices a confirmed note into its parent lead. A note for
// an unknown lead is dropped: summaries never outlive their parent here.
func (r *Repository) MergeSummary(s MeetingSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mergeSummary(s)
}

// DropSummary removes a note from whichever lead holds it
func (r *Repository) DropSummary(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropSummary(id)
}

func (r *Repository) mergeSummary(s MeetingSummary) {
	parent := r.find(s.LeadID)
	if parent == nil {
		log.Printf("lead: summary %s references unknown lead %s, dropped", s.ID, s.LeadID)
		return
	}
	replaced := false
	for i := range parent.MeetingSummaries {
		if parent.MeetingSummaries[i].ID == s.ID {
			parent.MeetingSummaries[i] = s
			replaced = true
			break
		}
	}
	if !replaced {
		parent.MeetingSummaries = append(parent.MeetingSummaries, s)
	}
	SortSummaries(parent.MeetingSummaries)
}

func (r *Repository) dropSummary(id string) {
	for _, l := range r.leads {
		for i := range l.MeetingSummaries {
			if l.MeetingSummaries[i].ID == id {
				l.MeetingSummaries = append(l.MeetingSummaries[:i], l.MeetingSummaries[i+1:]...)
				return
			}
		}
	}
}

func (r *Repository) find(id string) *Lead {
	for _, l := range r.leads {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (r *Repository) remove(id string) {
	for i, l := range r.leads {
		if l.ID == id {
			r.leads = append(r.leads[:i], r.leads[i+1:]...)
			return
		}
	}
}

// wrapGatewayErr keeps typed domain errors from the gateway intact and
// wraps everything else
func wrapGatewayErr(op string, err error) error {
	var nf *NotFoundError
	var cf *ConflictError
	if errors.As(err, &nf) || errors.As(err, &cf) {
		return err
	}
	return &GatewayError{Op: op, Err: err}
}
