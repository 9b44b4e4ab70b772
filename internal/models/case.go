// Package models defines the domain types for Caselink.
package models

// CaseRecord is a single case judgment as produced by a source adapter
// or read back from the cache. URL is the identity key: two records with
// the same URL describe the same judgment.
//
// Date, when present, is an ISO date ("2024-06-01") or a bare year
// ("2024"). An empty Date or Citation means the value is unknown.
type CaseRecord struct {
	Source   string `json:"source"`
	Court    string `json:"court"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Date     string `json:"date,omitempty"`
	Citation string `json:"citation,omitempty"`
}

// CaseHit is the response-shaped view of a CaseRecord: the title with
// query occurrences wrapped in <mark> tags, and nullable date/citation.
type CaseHit struct {
	Title          string  `json:"title"`
	TitleHighlight string  `json:"title_highlight"`
	URL            string  `json:"url"`
	Source         string  `json:"source"`
	Court          string  `json:"court"`
	Date           *string `json:"date"`
	Citation       *string `json:"citation"`
}

// Hit converts a record to its response shape. The highlighted title is
// supplied by the caller so it is computed against the original query.
func (r CaseRecord) Hit(titleHighlight string) CaseHit {
	return CaseHit{
		Title:          r.Title,
		TitleHighlight: titleHighlight,
		URL:            r.URL,
		Source:         r.Source,
		Court:          r.Court,
		Date:           nullable(r.Date),
		Citation:       nullable(r.Citation),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
