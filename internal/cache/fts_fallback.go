//go:build !sqlite_fts5

package cache

import (
	"context"
	"database/sql"

	"github.com/caselink-za/caselink/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not compiled in; lookups use a LIKE scan over cases.title.
	return nil
}

func ftsUpsert(_ *sql.Tx, _, _ string) error { return nil }

// Lookup performs a substring search over cached titles (fallback when
// FTS5 is not compiled in).
func (db *DB) Lookup(ctx context.Context, query string, limit, offset int) ([]models.CaseRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return db.likeLookup(ctx, query, limit, offset)
}
