package lead

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// Column set consumed by the spreadsheet-facing tooling; order matters.
var exportHeader = []string{
	"Company Name",
	"Email",
	"Contact Number",
	"Lead Source",
	"Assigned To",
	"Status",
	"Potential (%)",
	"Requirements",
	"Address",
	"Deadline",
	"Last Follow-up",
	"Next Follow-up",
	"Created At",
	"Meeting Count",
}

// WriteCSV streams the collection snapshot as CSV. encoding/csv doubles
// embedded quote characters, which is the escaping the consumers expect.
func WriteCSV(w io.Writer, leads []Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, l := range leads {
		potential := ""
		if l.Potential != nil {
			potential = strconv.Itoa(*l.Potential)
		}
		rec := []string{
			l.CompanyName,
			l.Email,
			l.ContactNumber,
			l.LeadSource,
			l.AssignedTo,
			string(l.Status),
			potential,
			l.Requirements,
			l.Address,
			formatDate(l.Deadline),
			formatDate(l.LastFollowUp),
			formatDate(l.NextFollowUp),
			l.CreatedAt.Format("2006-01-02"),
			strconv.Itoa(len(l.MeetingSummaries)),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummariesCSV streams one lead's meeting notes
func WriteSummariesCSV(w io.Writer, l Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Summary"}); err != nil {
		return err
	}
	for _, s := range l.MeetingSummaries {
		date := ""
		if s.MeetingDate != nil {
			date = s.MeetingDate.Format("2006-01-02 15:04")
		}
		if err := cw.Write([]string{date, s.Summary}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
