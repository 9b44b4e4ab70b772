package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caselink-za/caselink/internal/search"
	"github.com/caselink-za/caselink/internal/sources"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// events, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(eng *search.Engine, srcs []sources.Source, authEnabled bool, token string, events http.Handler, version string) chi.Router {
	h := NewHandler(eng, srcs, version)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Unified search.
	r.Get("/cases/search", h.SearchCases)

	// Diagnostics: per-adapter item counts from a live crawl.
	r.Get("/probe", h.Probe)

	r.Get("/version", h.Version)

	// SSE endpoint (protected by same auth middleware).
	if events != nil {
		r.Get("/events", events.ServeHTTP)
	}

	return r
}
