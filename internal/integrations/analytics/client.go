// Package analytics proxies page-view totals from the analytics provider's
// reporting endpoint.
package analytics

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/mkeller/folio/internal/apperr"
	"github.com/mkeller/folio/internal/fetch"
)

// Config holds the reporting endpoint and its API key.
type Config struct {
	Endpoint string
	APIKey   string
}

// Client fetches aggregate visitor stats.
type Client struct {
	cfg   Config
	fetch *fetch.Client
}

// New creates a Client.
func New(cfg Config, f *fetch.Client) *Client {
	return &Client{cfg: cfg, fetch: f}
}

// Enabled reports whether the provider is configured.
func (c *Client) Enabled() bool {
	return c.cfg.Endpoint != "" && c.cfg.APIKey != ""
}

// Views is the aggregate report shown on the site footer.
type Views struct {
	PageViews int64  `json:"page_views"`
	Visitors  int64  `json:"visitors"`
	Range     string `json:"range"`
}

// Views fetches totals for the trailing 30 days.
func (c *Client) Views(ctx context.Context) (Views, error) {
	if !c.Enabled() {
		return Views{}, apperr.ErrDisabled
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)

	q := url.Values{}
	q.Set("start", start.Format("2006-01-02"))
	q.Set("end", end.Format("2006-01-02"))

	var raw struct {
		PageViews int64 `json:"page_views"`
		Visitors  int64 `json:"visitors"`
	}
	u := fmt.Sprintf("%s?%s", c.cfg.Endpoint, q.Encode())
	if err := c.fetch.GetJSON(ctx, u, fetch.BearerHeader(c.cfg.APIKey), &raw); err != nil {
		return Views{}, err
	}

	return Views{
		PageViews: raw.PageViews,
		Visitors:  raw.Visitors,
		Range:     "30d",
	}, nil
}
