package cache

import (
	"context"

	"github.com/caselink-za/caselink/internal/models"
)

// Store defines the cache operations the aggregation engine depends on.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with in-memory fakes. A nil Store is a valid
// configuration and behaves as a permanent miss.
type Store interface {
	// Lookup performs a best-effort text search over previously persisted
	// records. An error is treated by callers as a cache miss.
	Lookup(ctx context.Context, query string, limit, offset int) ([]models.CaseRecord, error)

	// Upsert merges records into the cache keyed by URL. Title and court
	// are overwritten with the incoming values; date and citation are only
	// updated when the incoming value is non-empty, so a known value is
	// never regressed to unknown.
	Upsert(ctx context.Context, records []models.CaseRecord) error

	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
