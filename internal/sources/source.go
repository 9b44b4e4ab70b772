// Package sources contains the source adapter contract and one adapter
// per remote case-law surface. Adapters share a single rate-limited
// fetch client and recover all transport and parse failures internally:
// a failed fetch yields an empty record set, never a panic.
package sources

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/caselink-za/caselink/internal/models"
)

// Source is one external case-law provider. The aggregation engine holds
// an ordered list of these; earlier sources win URL collisions during
// deduplication. Query-independent adapters (the court site crawlers)
// ignore the query argument.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string) ([]models.CaseRecord, error)
}

var (
	isoDateRE = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	yearRE    = regexp.MustCompile(`\b(20\d{2}|19\d{2})\b`)
)

// collapseSpace trims s and collapses internal whitespace runs to single
// spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// absoluteURL resolves href against base, returning "" when href cannot
// be parsed.
func absoluteURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// sniffDate extracts the most specific date from a text blob: a full ISO
// date when present, otherwise a bare year, otherwise "".
func sniffDate(text string) string {
	if m := isoDateRE.FindString(text); m != "" {
		return m
	}
	return yearRE.FindString(text)
}
