package search

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/caselink-za/caselink/internal/apperr"
	"github.com/caselink-za/caselink/internal/cache"
	"github.com/caselink-za/caselink/internal/models"
	"github.com/caselink-za/caselink/internal/sources"
)

// Pagination bounds for a single search call.
const (
	DefaultLimit = 20
	MaxLimit     = 50
)

const writeBackTimeout = 30 * time.Second

// Response is the result of one search call. TotalEstimated is the
// post-filter, pre-pagination count on the live path; on the cache path
// it is the number of rows the cache returned for the requested page,
// which is an approximation, not a true match count.
type Response struct {
	Query          string           `json:"query"`
	FromCache      bool             `json:"fromCache"`
	Results        []models.CaseHit `json:"results"`
	TotalEstimated int              `json:"total_estimated"`
}

// Engine aggregates case records from the cache and the configured
// source adapters. It is stateless across calls: each Search is an
// independent unit of work, sharing only the cache store and the fetch
// client's throttle underneath the adapters.
type Engine struct {
	store   cache.Store // nil runs cache-less (every lookup is a miss)
	sources []sources.Source
	maxConc int
	notify  func(records []models.CaseRecord)
	log     *slog.Logger
}

// Option is a functional option for configuring the engine.
type Option func(*Engine)

// WithMaxConcurrency bounds the adapter fan-out. Zero or negative means
// one goroutine per adapter.
func WithMaxConcurrency(n int) Option {
	return func(e *Engine) { e.maxConc = n }
}

// WithNotify registers a hook invoked after a successful write-back with
// the records that were persisted.
func WithNotify(fn func(records []models.CaseRecord)) Option {
	return func(e *Engine) { e.notify = fn }
}

// WithLogger sets the engine logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine creates an aggregation engine over store (may be nil) and an
// ordered adapter list. Earlier adapters win URL collisions.
func NewEngine(store cache.Store, srcs []sources.Source, opts ...Option) *Engine {
	e := &Engine{store: store, sources: srcs}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	e.log = e.log.With(slog.String("component", "search"))
	return e
}

// Search answers query with a page of deduplicated, recency-ranked case
// hits. It never fails: adapter and cache errors degrade to smaller (or
// empty) result sets. Out-of-range limit and offset are clamped.
func (e *Engine) Search(ctx context.Context, query string, limit, offset int) *Response {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	if hits := e.cacheLookup(ctx, query, limit, offset); len(hits) > 0 {
		return &Response{
			Query:          query,
			FromCache:      true,
			Results:        hits,
			TotalEstimated: len(hits),
		}
	}

	unique := Rank(Dedupe(NormalizeAll(e.fanOut(ctx, query))))

	// The title filter applies only to live results; the cache does its
	// own matching.
	filtered := unique
	if query != "" {
		q := strings.ToLower(query)
		filtered = make([]models.CaseRecord, 0, len(unique))
		for _, r := range unique {
			if strings.Contains(strings.ToLower(r.Title), q) {
				filtered = append(filtered, r)
			}
		}
	}

	page := paginate(filtered, limit, offset)
	e.writeBack(ctx, unique)

	hits := make([]models.CaseHit, 0, len(page))
	for _, r := range page {
		hits = append(hits, r.Hit(Highlight(r.Title, query)))
	}
	return &Response{
		Query:          query,
		FromCache:      false,
		Results:        hits,
		TotalEstimated: len(filtered),
	}
}

// cacheLookup consults the cache store; any error is logged and treated
// as a miss.
func (e *Engine) cacheLookup(ctx context.Context, query string, limit, offset int) []models.CaseHit {
	if e.store == nil {
		return nil
	}
	recs, err := e.store.Lookup(ctx, query, limit, offset)
	if err != nil {
		e.log.Warn("cache lookup failed, falling through to live fetch", slog.String("error", err.Error()))
		return nil
	}
	if len(recs) == 0 {
		return nil
	}
	hits := make([]models.CaseHit, 0, len(recs))
	for _, r := range recs {
		hits = append(hits, r.Hit(Highlight(r.Title, query)))
	}
	return hits
}

// fanOut invokes every adapter concurrently and concatenates their
// results in adapter priority order once all have settled. A failed
// adapter contributes nothing; it never aborts its siblings.
func (e *Engine) fanOut(ctx context.Context, query string) []models.CaseRecord {
	results := make([][]models.CaseRecord, len(e.sources))

	var g errgroup.Group
	if e.maxConc > 0 {
		g.SetLimit(e.maxConc)
	}
	for i, src := range e.sources {
		g.Go(func() error {
			recs, err := src.Fetch(ctx, query)
			if errors.Is(err, apperr.ErrUnconfigured) {
				e.log.Debug("source disabled", slog.String("source", src.Name()))
				return nil
			}
			if err != nil {
				e.log.Warn("source fetch failed",
					slog.String("source", src.Name()), slog.String("error", err.Error()))
				return nil
			}
			results[i] = recs
			return nil
		})
	}
	_ = g.Wait() // adapter errors are swallowed above

	var all []models.CaseRecord
	for _, recs := range results {
		all = append(all, recs...)
	}
	return all
}

// writeBack persists the full deduplicated set without blocking the
// response. Failures are logged and otherwise ignored.
func (e *Engine) writeBack(ctx context.Context, records []models.CaseRecord) {
	if e.store == nil || len(records) == 0 {
		return
	}
	// The write-back owns its own copy and outlives the request context.
	owned := slices.Clone(records)
	bgCtx := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(bgCtx, writeBackTimeout)
		defer cancel()
		if err := e.store.Upsert(ctx, owned); err != nil {
			e.log.Warn("cache write-back failed", slog.Int("records", len(owned)), slog.String("error", err.Error()))
			return
		}
		e.log.Debug("cache write-back complete", slog.Int("records", len(owned)))
		if e.notify != nil {
			e.notify(owned)
		}
	}()
}

func paginate(records []models.CaseRecord, limit, offset int) []models.CaseRecord {
	if offset >= len(records) {
		return nil
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end]
}
