package sources

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/caselink-za/caselink/internal/apperr"
	"github.com/caselink-za/caselink/internal/fetch"
	"github.com/caselink-za/caselink/internal/models"
)

// DefaultSCABaseURL is the SAFLII Supreme Court of Appeal index.
const DefaultSCABaseURL = "https://www.saflii.org/za/cases/ZASCA/"

// SCA scrapes the SAFLII Supreme Court of Appeal judgment index. Index
// entries carry only a year, recorded as the first of January of that
// year so dated ordering still works.
type SCA struct {
	client  *fetch.Client
	baseURL string
	log     *slog.Logger
}

// NewSCA creates the SCA adapter. An empty baseURL selects the
// production index.
func NewSCA(client *fetch.Client, baseURL string, log *slog.Logger) *SCA {
	if baseURL == "" {
		baseURL = DefaultSCABaseURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &SCA{client: client, baseURL: baseURL, log: log.With(slog.String("component", "sources.sca"))}
}

// Name implements Source.
func (s *SCA) Name() string { return "SCA" }

// Fetch implements Source. The query is ignored.
func (s *SCA) Fetch(ctx context.Context, _ string) ([]models.CaseRecord, error) {
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("sources: sca base url: %w", err)
	}
	resp, err := s.client.Get(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("sources: sca fetch: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("sources: sca: %w %d", apperr.ErrInvalidStatus, resp.Status)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("sources: sca parse: %w", err)
	}

	var out []models.CaseRecord
	doc.Find("li a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		title := collapseSpace(a.Text())
		var date string
		if year := yearRE.FindString(title); year != "" {
			date = year + "-01-01"
		}
		out = append(out, models.CaseRecord{
			Source: s.Name(),
			Court:  "Supreme Court of Appeal",
			Title:  title,
			URL:    absoluteURL(base, href),
			Date:   date,
		})
	})
	return out, nil
}
