// Package wttj scrapes Welcome to the Jungle search listings and reads each
// offer's JSON-LD JobPosting block.
package wttj

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"job-insight/internal/config"
	"job-insight/internal/normalizer"

	"github.com/gocolly/colly/v2"
)

const (
	listingSelector    = "li[data-testid='search-results-list-item-wrapper']"
	paginationSelector = `nav[aria-label="Pagination"] li:last-child a`
	jsonLDSelector     = `script[type="application/ld+json"]`
	defaultMaxPages    = 5
	userAgent          = "JobInsightCollector/0.1"
)

// Options drives one collection. Filters apply after detail pages are read.
type Options struct {
	Keywords  []string
	MaxPages  int
	Pause     time.Duration
	Locations []string
	Contracts []string
	MinYears  *int
	MaxYears  *int
}

type Collector struct {
	baseURL   string
	maxPages  int
	transport http.RoundTripper
	logger    *log.Logger
}

func New(cfg config.WTTJConfig, logger *log.Logger) *Collector {
	return &Collector{baseURL: strings.TrimSpace(cfg.BaseURL), maxPages: cfg.MaxPages, logger: logger}
}

// WithTransport routes every page fetch through rt, typically a
// HeadlessTransport.
func (c *Collector) WithTransport(rt http.RoundTripper) *Collector {
	c.transport = rt
	return c
}

type listing struct {
	Title   string
	Link    string
	Company string
	Date    string
}

// Collect walks the listing pages of every keyword, de-duplicates by link,
// reads each detail page and returns the records that pass the filters.
func (c *Collector) Collect(ctx context.Context, opts Options) ([]normalizer.WTTJRecord, error) {
	if len(opts.Keywords) == 0 {
		return []normalizer.WTTJRecord{}, nil
	}
	pages := opts.MaxPages
	if pages <= 0 {
		pages = c.maxPages
	}
	if pages <= 0 {
		pages = defaultMaxPages
	}

	seen := map[string]struct{}{}
	items := make([]listing, 0)
	for _, kw := range opts.Keywords {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start, err := BuildSearchURL(c.baseURL, kw)
		if err != nil {
			return nil, err
		}
		found, err := c.scrapeListing(ctx, start, pages, opts.Pause)
		if err != nil {
			c.logf("[WTTJ] listing keyword=%q error=%v", kw, err)
			continue
		}
		c.logf("[WTTJ] listing keyword=%q offers=%d", kw, len(found))
		for _, it := range found {
			if _, ok := seen[it.Link]; ok {
				continue
			}
			seen[it.Link] = struct{}{}
			items = append(items, it)
		}
	}

	out := make([]normalizer.WTTJRecord, 0, len(items))
	for i, it := range items {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		rec, err := c.scrapeDetail(ctx, it)
		if err != nil {
			c.logf("[WTTJ] detail %d/%d link=%s error=%v", i+1, len(items), it.Link, err)
		}
		if opts.accept(rec) {
			out = append(out, rec)
		}
		if opts.Pause > 0 && i < len(items)-1 {
			sleep(ctx, opts.Pause)
		}
	}
	c.logf("[WTTJ] done offers=%d kept=%d", len(items), len(out))
	return out, nil
}

func (c *Collector) newCollector(ctx context.Context) *colly.Collector {
	col := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.StdlibContext(ctx),
	)
	if c.transport != nil {
		col.WithTransport(c.transport)
	}
	col.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.8")
	})
	return col
}

func (c *Collector) scrapeListing(ctx context.Context, start string, pages int, pause time.Duration) ([]listing, error) {
	col := c.newCollector(ctx)

	var mu sync.Mutex
	items := make([]listing, 0)
	visited := 0
	var reqErr error

	col.OnResponse(func(*colly.Response) {
		visited++
	})

	col.OnHTML(listingSelector, func(e *colly.HTMLElement) {
		var it listing
		e.ForEach("a", func(_ int, a *colly.HTMLElement) {
			if it.Link != "" || a.DOM.Find("h2").Length() == 0 {
				return
			}
			it.Link = a.Request.AbsoluteURL(strings.TrimSpace(a.Attr("href")))
			it.Title = strings.TrimSpace(a.ChildText("h2"))
		})
		if it.Link == "" {
			return
		}
		it.Company = strings.TrimSpace(e.DOM.Find("span[class*='wui-text']").First().Text())
		it.Date = strings.TrimSpace(e.ChildAttr("time", "datetime"))
		mu.Lock()
		items = append(items, it)
		mu.Unlock()
	})

	col.OnHTML(paginationSelector, func(e *colly.HTMLElement) {
		if visited >= pages || e.Attr("aria-disabled") == "true" {
			return
		}
		next := e.Request.AbsoluteURL(strings.TrimSpace(e.Attr("href")))
		if next == "" {
			return
		}
		if pause > 0 {
			sleep(ctx, pause)
		}
		_ = e.Request.Visit(next)
	})

	col.OnError(func(_ *colly.Response, err error) {
		if reqErr == nil {
			reqErr = err
		}
	})

	if err := col.Visit(start); err != nil {
		return nil, err
	}
	col.Wait()
	if reqErr != nil && len(items) == 0 {
		return nil, reqErr
	}
	return items, nil
}

// scrapeDetail always returns a record carrying the listing fields; err
// reports a page or JSON-LD failure.
func (c *Collector) scrapeDetail(ctx context.Context, it listing) (normalizer.WTTJRecord, error) {
	rec := normalizer.WTTJRecord{
		Title:   it.Title,
		Link:    it.Link,
		Company: it.Company,
		Date:    it.Date,
	}

	col := c.newCollector(ctx)
	var posting map[string]any
	var reqErr error
	col.OnHTML(jsonLDSelector, func(e *colly.HTMLElement) {
		if posting != nil {
			return
		}
		posting = findJobPosting([]byte(e.Text))
	})
	col.OnError(func(_ *colly.Response, err error) {
		reqErr = err
	})

	if err := col.Visit(it.Link); err != nil {
		return rec, err
	}
	col.Wait()
	if reqErr != nil {
		return rec, reqErr
	}
	if posting == nil {
		return rec, fmt.Errorf("no JobPosting metadata")
	}
	applyPosting(&rec, posting)
	return rec, nil
}

// BuildSearchURL sets query=keyword on base, resetting page to 1 when the
// parameter is present.
func BuildSearchURL(base, keyword string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("parse wttj base url: %w", err)
	}
	q := u.Query()
	q.Set("query", keyword)
	if q.Has("page") {
		q.Set("page", "1")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func (c *Collector) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
