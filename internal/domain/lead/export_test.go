package lead

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWriteCSV(t *testing.T) {
	p := 85
	deadline := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
	leads := []Lead{
		{
			CompanyName:   `Acme "Best" Ltd`,
			Email:         "sales@acme.test",
			ContactNumber: "+1234567890",
			LeadSource:    "referral",
			AssignedTo:    "alice",
			Status:        StatusNegotiation,
			Potential:     &p,
			Requirements:  "multi-line\nrequirement",
			Deadline:      &deadline,
			CreatedAt:     time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC),
			MeetingSummaries: []MeetingSummary{
				{ID: "s1", Summary: "kickoff"},
				{ID: "s2", Summary: "demo"},
			},
		},
		{
			CompanyName: "Minimal Co",
			Status:      StatusNew,
			CreatedAt:   time.Date(2026, time.August, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	assert.NoError(t, WriteCSV(&buf, leads))

	// quotes inside a field are doubled, the whole field quoted
	assert.Contains(t, buf.String(), `"Acme ""Best"" Ltd"`)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, exportHeader, records[0])

	acme := records[1]
	assert.Equal(t, `Acme "Best" Ltd`, acme[0])
	assert.Equal(t, "negotiation", acme[5])
	assert.Equal(t, "85", acme[6])
	assert.Equal(t, "2026-09-15", acme[9])
	assert.Equal(t, "2026-08-01", acme[12])
	assert.Equal(t, "2", acme[13])

	minimal := records[2]
	assert.Equal(t, "", minimal[6]) // unset potential stays blank
	assert.Equal(t, "", minimal[9])
	assert.Equal(t, "0", minimal[13])
}

func TestWriteSummariesCSV(t *testing.T) {
	d := time.Date(2026, time.August, 20, 14, 30, 0, 0, time.UTC)
	l := Lead{
		MeetingSummaries: []MeetingSummary{
			{Summary: "discussed pricing", MeetingDate: &d},
			{Summary: "undated note"},
		},
	}

	var buf bytes.Buffer
	assert.NoError(t, WriteSummariesCSV(&buf, l))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	assert.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Date", "Summary"},
		{"2026-08-20 14:30", "discussed pricing"},
		{"", "undated note"},
	}, records)
}
