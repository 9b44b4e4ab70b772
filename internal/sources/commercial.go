package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/caselink-za/caselink/internal/apperr"
	"github.com/caselink-za/caselink/internal/fetch"
	"github.com/caselink-za/caselink/internal/models"
)

// Commercial queries a commercial case-law provider through a JSON proxy.
// Unlike the court crawlers it is query-driven: the raw query is posted
// to the proxy and the proxy does its own matching. When no proxy URL is
// configured the adapter is a no-op.
type Commercial struct {
	client   *fetch.Client
	proxyURL string
	log      *slog.Logger
}

// NewCommercial creates the commercial provider adapter.
func NewCommercial(client *fetch.Client, proxyURL string, log *slog.Logger) *Commercial {
	if log == nil {
		log = slog.Default()
	}
	return &Commercial{client: client, proxyURL: proxyURL, log: log.With(slog.String("component", "sources.commercial"))}
}

// Name implements Source.
func (c *Commercial) Name() string { return "Commercial" }

type commercialResponse struct {
	Cases []struct {
		Court    string `json:"court"`
		Title    string `json:"title"`
		URL      string `json:"url"`
		Date     string `json:"date"`
		Citation string `json:"citation"`
	} `json:"cases"`
}

// Fetch implements Source.
func (c *Commercial) Fetch(ctx context.Context, query string) ([]models.CaseRecord, error) {
	if c.proxyURL == "" {
		return nil, fmt.Errorf("sources: commercial: %w", apperr.ErrUnconfigured)
	}
	resp, err := c.client.PostJSON(ctx, c.proxyURL, map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("sources: commercial fetch: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("sources: commercial: %w %d", apperr.ErrInvalidStatus, resp.Status)
	}
	var body commercialResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("sources: commercial decode: %w", err)
	}

	out := make([]models.CaseRecord, 0, len(body.Cases))
	for _, cs := range body.Cases {
		court := cs.Court
		if court == "" {
			court = "Commercial Provider"
		}
		out = append(out, models.CaseRecord{
			Source:   c.Name(),
			Court:    court,
			Title:    cs.Title,
			URL:      cs.URL,
			Date:     cs.Date,
			Citation: cs.Citation,
		})
	}
	return out, nil
}
