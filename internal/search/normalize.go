// Package search implements the unified case search: normalization,
// deduplication, recency ranking, query highlighting, and the
// aggregation engine that ties the cache and the source adapters
// together.
package search

import (
	"strings"

	"github.com/caselink-za/caselink/internal/models"
)

// Normalize returns the canonical form of a record: title whitespace
// collapsed and trimmed, URL trimmed, and court falling back to the
// source name when empty. The input is not mutated.
func Normalize(r models.CaseRecord) models.CaseRecord {
	r.Title = strings.Join(strings.Fields(r.Title), " ")
	r.URL = strings.TrimSpace(r.URL)
	if r.Court == "" {
		r.Court = r.Source
	}
	return r
}

// NormalizeAll maps Normalize over records.
func NormalizeAll(records []models.CaseRecord) []models.CaseRecord {
	out := make([]models.CaseRecord, len(records))
	for i, r := range records {
		out[i] = Normalize(r)
	}
	return out
}
