package anniversary

import (
	"strings"

	"github.com/IshaanNene/WikiStats/internal/report"
)

// Row is one event on one date.
type Row struct {
	Date  string
	Event string
}

// ToTable splits each passage into a date label and its events.
//
// The date is the text before the first colon. Events are separated by
// semicolons, except semicolons inside a parenthesized span. Passages
// with nothing after the colon yield no rows.
func ToTable(passages []string) []Row {
	var rows []Row
	for _, passage := range passages {
		date, events, found := strings.Cut(passage, ":")
		if !found || events == "" {
			continue
		}
		date = strings.TrimSpace(date)
		for _, event := range SplitEvents(events) {
			if event = strings.TrimSpace(event); event != "" {
				rows = append(rows, Row{Date: date, Event: event})
			}
		}
	}
	return rows
}

// SplitEvents splits s at every ';' whose next parenthesis, scanning
// forward, is not a ')'. A ';' followed by no parenthesis at all splits.
func SplitEvents(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != ';' || insideParens(s[i+1:]) {
			continue
		}
		parts = append(parts, s[start:i])
		start = i + 1
	}
	return append(parts, s[start:])
}

// insideParens reports whether a ')' comes before any '(' in rest.
func insideParens(rest string) bool {
	i := strings.IndexAny(rest, "()")
	return i >= 0 && rest[i] == ')'
}

// MarkdownTable converts rows into a Date | Event table.
func MarkdownTable(rows []Row) report.Table {
	t := report.Table{
		Header: []string{"Date", "Event"},
		Rows:   make([][]string, len(rows)),
	}
	for i, r := range rows {
		t.Rows[i] = []string{r.Date, r.Event}
	}
	return t
}
