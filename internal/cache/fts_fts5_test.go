//go:build sqlite_fts5

package cache

import (
	"context"
	"testing"

	"github.com/caselink-za/caselink/internal/models"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM cases_fts`).Scan(&count); err != nil {
		t.Fatalf("cases_fts table missing: %v", err)
	}
}

func TestFTS5_TermMatch(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	recs := []models.CaseRecord{
		{Court: "Constitutional Court", Title: "Mazibuko v City of Johannesburg", URL: "m1", Date: "2023-09-01"},
		{Court: "Supreme Court of Appeal", Title: "Pretorius v Road Accident Fund", URL: "m2", Date: "2024-02-01"},
	}
	if err := db.Upsert(ctx, recs); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := db.Lookup(ctx, "johannesburg", 10, 0)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(got) != 1 || got[0].URL != "m1" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestFTS5_DiacriticInsensitive(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	recs := []models.CaseRecord{
		{Court: "Constitutional Court", Title: "Müller v Minister of Justice", URL: "d1", Date: "2023-01-01"},
	}
	if err := db.Upsert(ctx, recs); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := db.Lookup(ctx, "muller", 10, 0)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("accent-insensitive match failed: %+v", got)
	}
}

func TestFTS5_UpsertReplacesTitle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	_ = db.Upsert(ctx, []models.CaseRecord{{Court: "X", Title: "original heading", URL: "e1"}})
	_ = db.Upsert(ctx, []models.CaseRecord{{Court: "X", Title: "replacement heading", URL: "e1"}})

	got, _ := db.Lookup(ctx, "original", 10, 0)
	if len(got) != 0 {
		t.Error("old FTS title should be gone")
	}
	got, _ = db.Lookup(ctx, "replacement", 10, 0)
	if len(got) != 1 || got[0].Title != "replacement heading" {
		t.Errorf("FTS not updated: %+v", got)
	}
}

func TestFTS5_QuerySanitised(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	_ = db.Upsert(ctx, []models.CaseRecord{{Court: "X", Title: "quoted case", URL: "q1"}})

	// FTS operators in user input must not be parsed as syntax.
	if _, err := db.Lookup(ctx, `case AND "unbalanced`, 10, 0); err != nil {
		t.Fatalf("Lookup with hostile input: %v", err)
	}
}

func TestFTSQuery(t *testing.T) {
	if got := ftsQuery("smith jones"); got != `"smith" "jones"` {
		t.Errorf("ftsQuery = %q", got)
	}
	if got := ftsQuery(""); got != "" {
		t.Errorf("ftsQuery(empty) = %q", got)
	}
}
