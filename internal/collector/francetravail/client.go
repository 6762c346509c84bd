// Package francetravail pulls offers from the France Travail "offres d'emploi"
// search API using OAuth2 client credentials.
package francetravail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"job-insight/internal/config"
	"job-insight/internal/normalizer"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultStep       = 150
	DefaultMaxResults = 600
	defaultPause      = 500 * time.Millisecond
	maxBodyBytes      = 16 << 20
)

var ErrNotConfigured = errors.New("france travail credentials not configured")

type Query struct {
	Keywords     string
	Location     string
	ContractType string
	Step         int
	MaxResults   int
}

type Client struct {
	http      *http.Client
	searchURL string
	pause     time.Duration
	logger    *log.Logger
}

// NewClient builds a client whose transport fetches and refreshes bearer
// tokens from the configured token endpoint.
func NewClient(ctx context.Context, cfg config.FranceTravailConfig, logger *log.Logger) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       strings.Fields(cfg.Scope),
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	hc := cc.Client(ctx)
	hc.Timeout = 30 * time.Second
	return NewClientWithHTTP(hc, cfg.SearchURL, logger), nil
}

func NewClientWithHTTP(hc *http.Client, searchURL string, logger *log.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{http: hc, searchURL: strings.TrimSpace(searchURL), pause: defaultPause, logger: logger}
}

// WithPause overrides the delay between pages.
func (c *Client) WithPause(d time.Duration) *Client {
	c.pause = d
	return c
}

type searchResponse struct {
	Resultats normalizer.FTList[normalizer.FTRecord] `json:"resultats"`
}

// Search pages through results with range=start-end windows of q.Step until
// a short or empty page, or until q.MaxResults offers have been requested.
func (c *Client) Search(ctx context.Context, q Query) ([]normalizer.FTRecord, error) {
	step := q.Step
	if step <= 0 {
		step = DefaultStep
	}
	limit := q.MaxResults
	if limit <= 0 {
		limit = DefaultMaxResults
	}

	out := make([]normalizer.FTRecord, 0)
	for start := 0; start < limit; start += step {
		page, err := c.fetchPage(ctx, q, start, start+step-1)
		if err != nil {
			return out, err
		}
		c.logf("[FranceTravail] page range=%d-%d results=%d", start, start+step-1, len(page))
		if len(page) == 0 {
			break
		}
		out = append(out, page...)
		if len(page) < step {
			break
		}
		if start+step < limit && c.pause > 0 {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			case <-time.After(c.pause):
			}
		}
	}
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, q Query, start, end int) ([]normalizer.FTRecord, error) {
	u, err := url.Parse(c.searchURL)
	if err != nil {
		return nil, fmt.Errorf("parse search url: %w", err)
	}
	params := u.Query()
	params.Set("motsCles", q.Keywords)
	params.Set("range", fmt.Sprintf("%d-%d", start, end))
	params.Set("sort", "1")
	if v := strings.TrimSpace(q.Location); v != "" {
		params.Set("lieuTravail", v)
	}
	if v := strings.TrimSpace(q.ContractType); v != "" {
		params.Set("typeContrat", v)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("france travail search: %w", err)
	}
	defer resp.Body.Close()

	// 204 means the range is past the last result.
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("france travail search: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var sr searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode france travail response: %w", err)
	}
	return []normalizer.FTRecord(sr.Resultats), nil
}

func (c *Client) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
