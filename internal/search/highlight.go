package search

import "strings"

// Highlight wraps every case-insensitive occurrence of query in title
// with <mark> tags. An empty query returns the title unmodified.
func Highlight(title, query string) string {
	if query == "" {
		return title
	}
	lowerTitle := strings.ToLower(title)
	lowerQuery := strings.ToLower(query)
	// Lowercasing a handful of unicode characters changes byte length;
	// the lowered offsets would then not index the original string, so
	// skip highlighting for those titles.
	if len(lowerTitle) != len(title) || len(lowerQuery) != len(query) {
		return title
	}

	var b strings.Builder
	pos := 0
	for {
		i := strings.Index(lowerTitle[pos:], lowerQuery)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(query)
		b.WriteString(title[pos:start])
		b.WriteString("<mark>")
		b.WriteString(title[start:end])
		b.WriteString("</mark>")
		pos = end
	}
	if pos == 0 {
		return title
	}
	b.WriteString(title[pos:])
	return b.String()
}
