package sources

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/caselink-za/caselink/internal/fetch"
	"github.com/caselink-za/caselink/internal/models"
)

// DefaultConcourtBaseURL is the Constitutional Court DSpace collection.
const DefaultConcourtBaseURL = "https://collections.concourt.org.za"

const concourtHandlePath = "/handle/20.500.12144/1"

// Concourt scrapes the Constitutional Court collections repository.
// DSpace paginates with an offset parameter; the first three pages
// (roughly the 60 most recent items) are fetched.
type Concourt struct {
	client  *fetch.Client
	baseURL string
	log     *slog.Logger
}

// NewConcourt creates the Concourt adapter. An empty baseURL selects the
// production collection.
func NewConcourt(client *fetch.Client, baseURL string, log *slog.Logger) *Concourt {
	if baseURL == "" {
		baseURL = DefaultConcourtBaseURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Concourt{client: client, baseURL: baseURL, log: log.With(slog.String("component", "sources.concourt"))}
}

// Name implements Source.
func (c *Concourt) Name() string { return "Concourt" }

// Fetch implements Source. The query is ignored: the collection index is
// crawled and filtering happens downstream.
func (c *Concourt) Fetch(ctx context.Context, _ string) ([]models.CaseRecord, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("sources: concourt base url: %w", err)
	}

	var all []models.CaseRecord
	for _, start := range []int{0, 20, 40} {
		page := fmt.Sprintf("%s%s?rpp=20&sort_by=2&order=DESC&etal=0&start=%d", c.baseURL, concourtHandlePath, start)
		resp, err := c.client.Get(ctx, page)
		if err != nil {
			c.log.Warn("page fetch failed", slog.String("url", page), slog.String("error", err.Error()))
			continue
		}
		if !resp.OK() {
			c.log.Warn("non-success status", slog.String("url", page), slog.Int("status", resp.Status))
			continue
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
		if err != nil {
			c.log.Warn("parse failed", slog.String("url", page), slog.String("error", err.Error()))
			continue
		}

		doc.Find(".artifact-title a").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			title := collapseSpace(a.Text())
			if href == "" || title == "" {
				return
			}
			// The item container usually carries a "Date: YYYY-MM-DD"
			// field nearby; fall back to any year in the blob.
			container := a.Closest(".artifact-description, .item-wrapper, .ds-artifact-item")
			date := sniffDate(collapseSpace(container.Text()))

			all = append(all, models.CaseRecord{
				Source: c.Name(),
				Court:  "Constitutional Court",
				Title:  title,
				URL:    absoluteURL(base, href),
				Date:   date,
			})
		})
	}
	if len(all) == 0 {
		c.log.Warn("collection parsed but no items found")
	}
	return all, nil
}
