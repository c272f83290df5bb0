package dashboard

import (
	"sort"
	"time"

	"leadcrm/internal/domain/lead"
)

// Flat average deal value used for the revenue projection. A business
// heuristic carried over as-is, not a configurable parameter.
const averageDealValue = 15000

// StatusCounts tallies leads per pipeline status. Every known status is
// present in the result, zero or not; unknown values are ignored.
func StatusCounts(leads []lead.Lead) map[lead.Status]int {
	counts := make(map[lead.Status]int, len(lead.AllStatuses))
	for _, s := range lead.AllStatuses {
		counts[s] = 0
	}
	for i := range leads {
		if _, ok := counts[leads[i].Status]; ok {
			counts[leads[i].Status]++
		}
	}
	return counts
}

// ProposalStatusCounts tallies leads per proposal status, zero-filled
func ProposalStatusCounts(leads []lead.Lead) map[lead.ProposalStatus]int {
	counts := make(map[lead.ProposalStatus]int, len(lead.AllProposalStatuses))
	for _, p := range lead.AllProposalStatuses {
		counts[p] = 0
	}
	for i := range leads {
		if _, ok := counts[leads[i].ProposalStatus]; ok {
			counts[leads[i].ProposalStatus]++
		}
	}
	return counts
}

// PotentialRevenue projects revenue from the pipeline: a won lead counts
// the full average deal value, a lead in negotiation counts the value
// weighted by its potential, every other status contributes nothing.
func PotentialRevenue(leads []lead.Lead) float64 {
	var sum float64
	for i := range leads {
		switch leads[i].Status {
		case lead.StatusWon:
			sum += averageDealValue
		case lead.StatusNegotiation:
			sum += averageDealValue * float64(leads[i].PotentialOrZero()) / 100
		}
	}
	return sum
}

// MonthBucket is one calendar month of conversion outcomes
type MonthBucket struct {
	Month     string `json:"month"`
	Year      int    `json:"year"`
	Converted int    `json:"converted"`
	Lost      int    `json:"lost"`
}

// MonthlyConversion buckets leads by creation month over the trailing
// monthsBack calendar months ending at now's month, in chronological
// order. Months with no leads report zeroes, never gaps.
func MonthlyConversion(leads []lead.Lead, monthsBack int, now time.Time) []MonthBucket {
	if monthsBack <= 0 {
		monthsBack = 6
	}

	starts := make([]time.Time, monthsBack)
	buckets := make([]MonthBucket, monthsBack)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(monthsBack - 1), 0)
	for i := 0; i < monthsBack; i++ {
		m := first.AddDate(0, i, 0)
		starts[i] = m
		buckets[i] = MonthBucket{Month: m.Format("Jan"), Year: m.Year()}
	}

	for i := range leads {
		created := leads[i].CreatedAt
		for j, start := range starts {
			end := start.AddDate(0, 1, 0)
			if !created.Before(start) && created.Before(end) {
				switch leads[i].Status {
				case lead.StatusWon:
					buckets[j].Converted++
				case lead.StatusLost:
					buckets[j].Lost++
				}
				break
			}
		}
	}
	return buckets
}

// AveragePotential is the mean potential over leads in one status,
// counting missing potentials as 0. No matching leads yields 0, not NaN.
func AveragePotential(leads []lead.Lead, status lead.Status) float64 {
	var sum, n int
	for i := range leads {
		if leads[i].Status == status {
			sum += leads[i].PotentialOrZero()
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// DueToday returns leads whose next follow-up falls on today's calendar
// date. Stored follow-ups can carry a time of day, so this compares
// dates in today's location, never raw instants.
func DueToday(leads []lead.Lead, today time.Time) []lead.Lead {
	y, m, d := today.Date()
	out := make([]lead.Lead, 0)
	for i := range leads {
		nf := leads[i].NextFollowUp
		if nf == nil {
			continue
		}
		fy, fm, fd := nf.In(today.Location()).Date()
		if fy == y && fm == m && fd == d {
			out = append(out, leads[i])
		}
	}
	return out
}

// Overdue reports whether the next follow-up lies strictly in the past
func Overdue(l lead.Lead, now time.Time) bool {
	return l.NextFollowUp != nil && l.NextFollowUp.Before(now)
}

// OverdueLeads filters the collection down to overdue follow-ups
func OverdueLeads(leads []lead.Lead, now time.Time) []lead.Lead {
	out := make([]lead.Lead, 0)
	for i := range leads {
		if Overdue(leads[i], now) {
			out = append(out, leads[i])
		}
	}
	return out
}

// ScheduledMeetings returns leads with a scheduled meeting, ordered by
// meeting date then clock time
func ScheduledMeetings(leads []lead.Lead) []lead.Lead {
	out := make([]lead.Lead, 0)
	for i := range leads {
		if leads[i].MeetingDate != nil && leads[i].MeetingTime != nil {
			out = append(out, leads[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].MeetingDate.Equal(*out[j].MeetingDate) {
			return out[i].MeetingDate.Before(*out[j].MeetingDate)
		}
		return *out[i].MeetingTime < *out[j].MeetingTime
	})
	return out
}

// MeetingsToday filters the schedule down to today's calendar date
func MeetingsToday(leads []lead.Lead, today time.Time) []lead.Lead {
	y, m, d := today.Date()
	out := make([]lead.Lead, 0)
	for _, l := range ScheduledMeetings(leads) {
		my, mm, md := l.MeetingDate.In(today.Location()).Date()
		if my == y && mm == m && md == d {
			out = append(out, l)
		}
	}
	return out
}
