package lead

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ParseWorkbook reads the first sheet of an xlsx upload into drafts.
// The header row is auto-mapped with substring matching, so exports from
// other tools line up without manual column configuration. Validation
// stays with Create: the importer is just a bulk caller.
func ParseWorkbook(r io.Reader) ([]Draft, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ValidationError{Field: "file", Reason: "not a readable workbook"}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ValidationError{Field: "file", Reason: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ValidationError{Field: "file", Reason: "unreadable sheet"}
	}
	if len(rows) < 2 {
		return nil, &ValidationError{Field: "file", Reason: "sheet has no data rows"}
	}

	mapping := autoMapHeaders(rows[0])
	drafts := make([]Draft, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		drafts = append(drafts, draftFromRow(row, mapping))
	}
	return drafts, nil
}

// autoMapHeaders maps draft fields to column indexes. First match wins,
// checked in the order below.
func autoMapHeaders(headers []string) map[string]int {
	m := make(map[string]int)
	set := func(key string, idx int) {
		if _, ok := m[key]; !ok {
			m[key] = idx
		}
	}
	for i, h := range headers {
		lh := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(lh, "company") || strings.Contains(lh, "name"):
			set("company_name", i)
		case strings.Contains(lh, "email"):
			set("email", i)
		case strings.Contains(lh, "phone") || strings.Contains(lh, "contact") || strings.Contains(lh, "mobile"):
			set("contact_number", i)
		case strings.Contains(lh, "source"):
			set("lead_source", i)
		case strings.Contains(lh, "status"):
			set("status", i)
		case strings.Contains(lh, "potential"):
			set("potential", i)
		case strings.Contains(lh, "requirement"):
			set("requirements", i)
		case strings.Contains(lh, "address"):
			set("address", i)
		case strings.Contains(lh, "assign"):
			set("assigned_to", i)
		case strings.Contains(lh, "deadline"):
			set("deadline", i)
		case strings.Contains(lh, "follow"):
			set("next_follow_up", i)
		}
	}
	return m
}

func draftFromRow(row []string, mapping map[string]int) Draft {
	cell := func(key string) string {
		idx, ok := mapping[key]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	d := Draft{
		CompanyName:   cell("company_name"),
		Email:         cell("email"),
		ContactNumber: cell("contact_number"),
		LeadSource:    cell("lead_source"),
		AssignedTo:    cell("assigned_to"),
		Requirements:  cell("requirements"),
		Address:       cell("address"),
	}
	if d.CompanyName == "" {
		d.CompanyName = "Unknown Company"
	}
	if d.LeadSource == "" {
		d.LeadSource = "import"
	}

	if s := strings.ToLower(cell("status")); s != "" {
		d.Status = Status(s)
	}
	if p := cell("potential"); p != "" {
		if v, err := strconv.Atoi(strings.TrimSuffix(p, "%")); err == nil {
			d.Potential = &v
		}
	}
	if t := parseCellDate(cell("deadline")); t != nil {
		d.Deadline = t
	}
	if t := parseCellDate(cell("next_follow_up")); t != nil {
		d.NextFollowUp = t
	}
	return d
}

func parseCellDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "01-02-06", "1/2/06", "2006/01/02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
