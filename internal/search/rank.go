package search

import (
	"sort"
	"time"

	"github.com/caselink-za/caselink/internal/models"
)

var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// parseDate interprets the loosely-formatted date field. A missing or
// unparseable date maps to the zero time so those records sort after
// every dated one.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Dedupe returns records unique by URL, keeping the first-encountered
// record on collision. Input order is the adapter priority order, so
// earlier-listed adapters win.
func Dedupe(records []models.CaseRecord) []models.CaseRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]models.CaseRecord, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Rank returns records sorted by date descending. The sort is stable, so
// ties (including all undated records, which compare equal) keep the
// order Dedupe produced. The input is not mutated.
func Rank(records []models.CaseRecord) []models.CaseRecord {
	out := make([]models.CaseRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return parseDate(out[i].Date).After(parseDate(out[j].Date))
	})
	return out
}
