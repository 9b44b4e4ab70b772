package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/caselink-za/caselink/internal/apperr"
	"github.com/caselink-za/caselink/internal/search"
	"github.com/caselink-za/caselink/internal/sources"
)

// Handler holds API route handlers.
type Handler struct {
	eng       *search.Engine
	srcs      []sources.Source
	version   string
	startedAt time.Time
}

// NewHandler creates a new Handler.
func NewHandler(eng *search.Engine, srcs []sources.Source, version string) *Handler {
	return &Handler{eng: eng, srcs: srcs, version: version, startedAt: time.Now().UTC()}
}

// intParam parses an optional integer query parameter, returning def
// when absent. ok is false when the value is present but not an integer.
func intParam(r *http.Request, name string, def int) (val int, ok bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SearchCases handles GET /api/cases/search.
//
//	@Summary		Unified case search across all configured sources
//	@Tags			cases
//	@Produce		json
//	@Param			q		query		string	true	"Search query (1-200 chars)"
//	@Param			limit	query		int		false	"Page size (1-50, default 20)"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cases/search [get]
func (h *Handler) SearchCases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit, okLimit := intParam(r, "limit", search.DefaultLimit)
	offset, okOffset := intParam(r, "offset", 0)
	if !okLimit || !okOffset {
		writeJSON(w, http.StatusBadRequest, errorBody("limit and offset must be integers"))
		return
	}

	if err := (validation.Errors{
		"q":      validation.Validate(q, validation.Required, validation.Length(1, 200)),
		"limit":  validation.Validate(limit, validation.Min(1), validation.Max(search.MaxLimit)),
		"offset": validation.Validate(offset, validation.Min(0)),
	}).Filter(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	resp := h.eng.Search(r.Context(), q, limit, offset)
	writeJSON(w, http.StatusOK, resp)
}

// Probe handles GET /api/probe. It bypasses the cache and crawls every
// adapter once, reporting item counts for diagnostics.
//
//	@Summary		Live per-source fetch diagnostics
//	@Tags			diagnostics
//	@Produce		json
//	@Success		200	{object}	ProbeResponse
//	@Security		BearerAuth
//	@Router			/probe [get]
func (h *Handler) Probe(w http.ResponseWriter, r *http.Request) {
	type result struct {
		name  string
		count int
		skip  bool
	}
	results := make(chan result, len(h.srcs))
	for _, src := range h.srcs {
		go func() {
			recs, err := src.Fetch(r.Context(), "")
			switch {
			case errors.Is(err, apperr.ErrUnconfigured):
				// Deliberately disabled adapters neither count nor fail.
				results <- result{name: src.Name(), skip: true}
			case err != nil:
				slog.Warn("probe fetch failed", slog.String("source", src.Name()), slog.String("error", err.Error()))
				results <- result{name: src.Name(), count: -1}
			default:
				results <- result{name: src.Name(), count: len(recs)}
			}
		}()
	}

	resp := ProbeResponse{Sources: make(map[string]int, len(h.srcs)), OK: true}
	for range h.srcs {
		res := <-results
		if res.skip {
			continue
		}
		resp.Sources[res.name] = res.count
		if res.count < 0 {
			resp.OK = false
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Version handles GET /api/version.
//
//	@Summary		Running build info
//	@Tags			diagnostics
//	@Produce		json
//	@Success		200	{object}	VersionResponse
//	@Router			/version [get]
func (h *Handler) Version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: h.version, StartedAt: h.startedAt})
}
