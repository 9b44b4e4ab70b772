//go:build sqlite_fts5

package cache

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/caselink-za/caselink/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS cases_fts USING fts5(
			url UNINDEXED,
			title,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, url, title string) error {
	_, _ = tx.Exec(`DELETE FROM cases_fts WHERE url = ?`, url)
	if _, err := tx.Exec(`INSERT INTO cases_fts (url, title) VALUES (?, ?)`, url, title); err != nil {
		return fmt.Errorf("cache: upsert fts: %w", err)
	}
	return nil
}

// Lookup searches cached titles with FTS5 (diacritic-insensitive term
// match) and falls back to a plain substring scan when the ranked search
// finds nothing, mirroring the LIKE-only build.
func (db *DB) Lookup(ctx context.Context, query string, limit, offset int) ([]models.CaseRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	match := ftsQuery(query)
	if match != "" {
		rows, err := db.conn.QueryContext(ctx, `
			SELECT c.title, c.url, c.court, c.date, c.citation
			FROM cases_fts f
			JOIN cases c ON c.url = f.url
			WHERE cases_fts MATCH ?
			ORDER BY c.date DESC NULLS LAST, c.updated_at DESC
			LIMIT ? OFFSET ?
		`, match, limit, offset)
		if err == nil {
			defer rows.Close()
			out, err := scanCases(rows)
			if err != nil {
				return nil, err
			}
			if len(out) > 0 {
				return out, nil
			}
		}
		// MATCH error or zero hits: fall through to the substring scan.
	}
	return db.likeLookup(ctx, query, limit, offset)
}

// ftsQuery turns free text into an FTS5 expression by quoting each term,
// so user input can never be parsed as FTS syntax.
func ftsQuery(q string) string {
	fields := strings.Fields(q)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	return strings.Join(terms, " ")
}
