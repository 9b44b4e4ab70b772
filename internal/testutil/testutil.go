// Package testutil provides shared test helpers for setting up case caches.
package testutil

import (
	"os"
	"testing"

	"github.com/caselink-za/caselink/internal/cache"
)

// TestDB creates a temporary SQLite case cache that is automatically cleaned up.
func TestDB(t *testing.T) *cache.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "caselink-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := cache.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
