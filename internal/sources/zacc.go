package sources

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"sort"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/caselink-za/caselink/internal/apperr"
	"github.com/caselink-za/caselink/internal/fetch"
	"github.com/caselink-za/caselink/internal/models"
)

// DefaultZACCBaseURL is the SAFLII Constitutional Court index.
const DefaultZACCBaseURL = "https://www.saflii.org/za/cases/ZACC/"

var (
	zaccYearLinkRE = regexp.MustCompile(`/ZACC/(20\d{2})/?$`)
	zaccCaseLinkRE = regexp.MustCompile(`/za/cases/ZACC/20\d{2}/\d+`)
)

// ZACC scrapes the SAFLII Constitutional Court index. The index page
// links to per-year pages; the latest three years are fetched.
type ZACC struct {
	client  *fetch.Client
	baseURL string
	years   int
	log     *slog.Logger
}

// NewZACC creates the ZACC adapter. An empty baseURL selects the
// production index.
func NewZACC(client *fetch.Client, baseURL string, log *slog.Logger) *ZACC {
	if baseURL == "" {
		baseURL = DefaultZACCBaseURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &ZACC{client: client, baseURL: baseURL, years: 3, log: log.With(slog.String("component", "sources.zacc"))}
}

// Name implements Source.
func (z *ZACC) Name() string { return "ZACC" }

// Fetch implements Source. The query is ignored.
func (z *ZACC) Fetch(ctx context.Context, _ string) ([]models.CaseRecord, error) {
	base, err := url.Parse(z.baseURL)
	if err != nil {
		return nil, fmt.Errorf("sources: zacc base url: %w", err)
	}
	resp, err := z.client.Get(ctx, z.baseURL)
	if err != nil {
		return nil, fmt.Errorf("sources: zacc index fetch: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("sources: zacc index: %w %d", apperr.ErrInvalidStatus, resp.Status)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("sources: zacc index parse: %w", err)
	}

	type yearPage struct {
		url  string
		year int
	}
	seen := map[string]struct{}{}
	var pages []yearPage
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		m := zaccYearLinkRE.FindStringSubmatch(href)
		if m == nil {
			return
		}
		abs := absoluteURL(base, href)
		if _, dup := seen[abs]; dup || abs == "" {
			return
		}
		seen[abs] = struct{}{}
		year, _ := strconv.Atoi(m[1])
		pages = append(pages, yearPage{url: abs, year: year})
	})
	sort.Slice(pages, func(i, j int) bool { return pages[i].year > pages[j].year })
	if len(pages) > z.years {
		pages = pages[:z.years]
	}

	var items []models.CaseRecord
	for _, p := range pages {
		resp, err := z.client.Get(ctx, p.url)
		if err != nil {
			z.log.Warn("year page fetch failed", slog.String("url", p.url), slog.String("error", err.Error()))
			continue
		}
		if !resp.OK() {
			z.log.Warn("non-success status at year page", slog.String("url", p.url), slog.Int("status", resp.Status))
			continue
		}
		yearDoc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
		if err != nil {
			z.log.Warn("year page parse failed", slog.String("url", p.url), slog.String("error", err.Error()))
			continue
		}
		yearDoc.Find("a").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if !zaccCaseLinkRE.MatchString(href) {
				return
			}
			abs := absoluteURL(base, href)
			title := collapseSpace(a.Text())
			if title == "" {
				title = abs
			}
			items = append(items, models.CaseRecord{
				Source: z.Name(),
				Court:  "Constitutional Court",
				Title:  title,
				URL:    abs,
				Date:   strconv.Itoa(p.year),
			})
		})
	}
	if len(items) == 0 {
		z.log.Warn("index parsed but no judgments found")
	}
	return items, nil
}
