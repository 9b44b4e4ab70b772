// Package fetch provides the shared rate-limited HTTP client used by all
// source adapters. It enforces a per-request timeout, a small number of
// retries with exponential backoff for transient failures, and a
// process-wide politeness throttle: a minimum inter-request interval plus
// a cap on concurrently in-flight requests.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Config holds fetch client settings.
type Config struct {
	// Timeout bounds a single request attempt. Exceeding it fails the
	// attempt (and, after retries, the call).
	Timeout time.Duration
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int
	// RetryBackoff is the delay before the first retry; it doubles on
	// each subsequent retry.
	RetryBackoff time.Duration
	// MinInterval is the politeness gap between outbound requests,
	// shared across all adapters using this client.
	MinInterval time.Duration
	// MaxInFlight caps concurrently outstanding requests.
	MaxInFlight int64
	// UserAgent overrides the default browser-like user agent.
	UserAgent string
}

// Response is a completed HTTP exchange. Non-2xx statuses are returned
// here rather than as errors so callers can inspect pages that still
// render useful HTML.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the response status is a success.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client is a long-lived, process-wide HTTP client. The throttle state
// (token bucket and in-flight count) is the shared mutable resource all
// adapters contend for; it owns its own synchronization.
type Client struct {
	http     *http.Client
	ua       string
	retries  int
	backoff  time.Duration
	limiter  *rate.Limiter
	inflight *semaphore.Weighted
	log      *slog.Logger
}

// NewClient creates a fetch client from cfg, substituting defaults for
// zero values.
func NewClient(cfg Config, log *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 4
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		ua:       cfg.UserAgent,
		retries:  cfg.MaxRetries,
		backoff:  cfg.RetryBackoff,
		limiter:  rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		inflight: semaphore.NewWeighted(cfg.MaxInFlight),
		log:      log.With(slog.String("component", "fetch")),
	}
}

// Get fetches url and returns the response body and status.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		return req, nil
	})
}

// PostJSON sends body as a JSON payload to url.
func (c *Client) PostJSON(ctx context.Context, url string, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("fetch: marshal body: %w", err)
	}
	return c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
}

// do runs a request under the politeness throttle, retrying transient
// failures with exponential backoff. newReq is called per attempt so
// request bodies are never re-read.
func (c *Client) do(ctx context.Context, newReq func() (*http.Request, error)) (*Response, error) {
	if err := c.inflight.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("fetch: acquire slot: %w", err)
	}
	defer c.inflight.Release(1)

	var lastErr error
	delay := c.backoff
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
			delay *= 2
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("fetch: throttle wait: %w", err)
		}

		req, err := newReq()
		if err != nil {
			return nil, fmt.Errorf("fetch: build request: %w", err)
		}
		req.Header.Set("User-Agent", c.ua)

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			c.log.Warn("request failed", slog.String("url", req.URL.String()),
				slog.Int("attempt", attempt+1), slog.String("error", err.Error()))
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if transientStatus(resp.StatusCode) && attempt < c.retries {
			lastErr = fmt.Errorf("fetch: status %d", resp.StatusCode)
			c.log.Warn("transient status, retrying", slog.String("url", req.URL.String()),
				slog.Int("status", resp.StatusCode), slog.Int("attempt", attempt+1))
			continue
		}
		return &Response{Status: resp.StatusCode, Body: body}, nil
	}
	return nil, fmt.Errorf("fetch: all attempts failed: %w", lastErr)
}

func transientStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
