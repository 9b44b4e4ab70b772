package cache

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/caselink-za/caselink/internal/models"
)

// Upsert inserts or merges records keyed by URL within a transaction.
// Title and court always take the incoming value; date and citation keep
// the stored value when the incoming one is empty.
func (db *DB) Upsert(ctx context.Context, records []models.CaseRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cache: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cases (url, title, court, date, citation)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title      = excluded.title,
			court      = excluded.court,
			date       = COALESCE(excluded.date, cases.date),
			citation   = COALESCE(excluded.citation, cases.citation),
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("cache: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if r.URL == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, r.URL, r.Title, r.Court, nullIfEmpty(r.Date), nullIfEmpty(r.Citation)); err != nil {
			return fmt.Errorf("cache: upsert case: %w", err)
		}
		if err := ftsUpsert(tx, r.URL, r.Title); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Count returns the number of cached cases.
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM cases`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache: count: %w", err)
	}
	return n, nil
}

// likeLookup is the substring search shared by the FTS fallback build and
// the FTS build's second pass when MATCH finds nothing.
func (db *DB) likeLookup(ctx context.Context, query string, limit, offset int) ([]models.CaseRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT title, url, court, date, citation
		FROM cases
		WHERE lower(title) LIKE '%' || lower(?) || '%'
		ORDER BY date DESC NULLS LAST, updated_at DESC
		LIMIT ? OFFSET ?
	`, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("cache: lookup: %w", err)
	}
	defer rows.Close()
	return scanCases(rows)
}

func scanCases(rows *sql.Rows) ([]models.CaseRecord, error) {
	var out []models.CaseRecord
	for rows.Next() {
		var r models.CaseRecord
		var date, citation sql.NullString
		if err := rows.Scan(&r.Title, &r.URL, &r.Court, &date, &citation); err != nil {
			return nil, err
		}
		r.Date = date.String
		r.Citation = citation.String
		r.Source = sourceFromCourt(r.Court)
		out = append(out, r)
	}
	return out, rows.Err()
}

// sourceFromCourt recovers the adapter identifier for cached rows, which
// persist only the court name.
func sourceFromCourt(court string) string {
	switch {
	case strings.Contains(court, "Commercial"):
		return "Commercial"
	case strings.Contains(court, "Constitutional"):
		return "Concourt"
	case strings.Contains(court, "Supreme"):
		return "SCA"
	default:
		return court
	}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
