package api

import (
	"time"

	"github.com/caselink-za/caselink/internal/models"
	"github.com/caselink-za/caselink/internal/search"
)

// SearchResponse is the unified search payload (aliased from the domain layer).
type SearchResponse = search.Response

// CaseHit is a single case in a search response (aliased from the domain layer).
type CaseHit = models.CaseHit

// ProbeResponse reports a live item count per source adapter. A count of
// -1 means the adapter failed.
type ProbeResponse struct {
	Sources map[string]int `json:"sources" validate:"required"`
	OK      bool           `json:"ok" validate:"required"`
}

// VersionResponse reports the running build.
type VersionResponse struct {
	Version   string    `json:"version" example:"1.2.0" validate:"required"`
	StartedAt time.Time `json:"started_at" validate:"required"`
}
