package search

import (
	"reflect"
	"testing"

	"github.com/caselink-za/caselink/internal/models"
)

func urls(records []models.CaseRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.URL
	}
	return out
}

func TestDedupeFirstWins(t *testing.T) {
	records := []models.CaseRecord{
		{URL: "u1", Title: "from adapter A"},
		{URL: "u2", Title: "unique"},
		{URL: "u1", Title: "from adapter B"},
	}
	got := Dedupe(records)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Title != "from adapter A" {
		t.Errorf("collision kept %q, want first-encountered", got[0].Title)
	}
}

func TestDedupeIdempotent(t *testing.T) {
	records := []models.CaseRecord{
		{URL: "a", Date: "2024-01-01"},
		{URL: "b"},
		{URL: "a", Date: "2020-01-01"},
		{URL: "c", Date: "2023-06-01"},
	}
	once := Rank(Dedupe(records))
	twice := Rank(Dedupe(once))
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("not idempotent:\nonce  = %v\ntwice = %v", urls(once), urls(twice))
	}
}

func TestRankDateDescendingUndatedLast(t *testing.T) {
	records := []models.CaseRecord{
		{URL: "a", Date: "2023-01-01"},
		{URL: "b"},
		{URL: "c", Date: "2024-06-01"},
	}
	got := Rank(records)
	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(urls(got), want) {
		t.Errorf("order = %v, want %v", urls(got), want)
	}
}

func TestRankStableOnTies(t *testing.T) {
	records := []models.CaseRecord{
		{URL: "a", Date: "2024-01-01"},
		{URL: "b", Date: "2024-01-01"},
		{URL: "c"},
		{URL: "d"},
	}
	got := Rank(records)
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(urls(got), want) {
		t.Errorf("order = %v, want %v (stable)", urls(got), want)
	}
}

func TestRankBareYearAndUnparseable(t *testing.T) {
	records := []models.CaseRecord{
		{URL: "garbled", Date: "sometime last week"},
		{URL: "year", Date: "2022"},
		{URL: "full", Date: "2022-08-15"},
	}
	got := Rank(records)
	// "2022" parses as 2022-01-01, so the full date within that year
	// precedes it; garbage sorts with the undated.
	want := []string{"full", "year", "garbled"}
	if !reflect.DeepEqual(urls(got), want) {
		t.Errorf("order = %v, want %v", urls(got), want)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	records := []models.CaseRecord{
		{URL: "old", Date: "2020-01-01"},
		{URL: "new", Date: "2024-01-01"},
	}
	_ = Rank(records)
	if records[0].URL != "old" {
		t.Error("input reordered in place")
	}
}

func TestParseDate(t *testing.T) {
	if parseDate("2024-06-01").IsZero() {
		t.Error("ISO date should parse")
	}
	if parseDate("2024").IsZero() {
		t.Error("bare year should parse")
	}
	if !parseDate("").IsZero() {
		t.Error("empty date should be zero")
	}
	if !parseDate("last tuesday").IsZero() {
		t.Error("garbage should be zero")
	}
}
