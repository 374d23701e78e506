// Package wakatime proxies coding-activity stats from the WakaTime API.
package wakatime

import (
	"context"

	"github.com/mkeller/folio/internal/apperr"
	"github.com/mkeller/folio/internal/fetch"
)

// DefaultAPIURL is the public WakaTime API host.
const DefaultAPIURL = "https://wakatime.com/api/v1"

// Config holds WakaTime credentials.
type Config struct {
	APIKey string
	APIURL string
}

// Client fetches stats for the authenticated user.
type Client struct {
	cfg   Config
	fetch *fetch.Client
}

// New creates a Client.
func New(cfg Config, f *fetch.Client) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	return &Client{cfg: cfg, fetch: f}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

// Language is one language share in the weekly stats.
type Language struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
	Text    string  `json:"text"`
}

// Stats combines the last-7-days and all-time totals shown on the site.
type Stats struct {
	Last7DaysTotal string     `json:"last_7_days_total"`
	DailyAverage   string     `json:"daily_average"`
	AllTimeTotal   string     `json:"all_time_total"`
	Languages      []Language `json:"languages,omitempty"`
}

// Stats fetches both stat windows and merges them.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	if !c.Enabled() {
		return Stats{}, apperr.ErrDisabled
	}
	header := fetch.BasicHeader(c.cfg.APIKey, "")

	var week struct {
		Data struct {
			HumanReadableTotal        string     `json:"human_readable_total"`
			HumanReadableDailyAverage string     `json:"human_readable_daily_average"`
			Languages                 []Language `json:"languages"`
		} `json:"data"`
	}
	if err := c.fetch.GetJSON(ctx, c.cfg.APIURL+"/users/current/stats/last_7_days", header, &week); err != nil {
		return Stats{}, err
	}

	var allTime struct {
		Data struct {
			Text string `json:"text"`
		} `json:"data"`
	}
	if err := c.fetch.GetJSON(ctx, c.cfg.APIURL+"/users/current/all_time_since_today", header, &allTime); err != nil {
		return Stats{}, err
	}

	langs := week.Data.Languages
	if len(langs) > 5 {
		langs = langs[:5]
	}
	return Stats{
		Last7DaysTotal: week.Data.HumanReadableTotal,
		DailyAverage:   week.Data.HumanReadableDailyAverage,
		AllTimeTotal:   allTime.Data.Text,
		Languages:      langs,
	}, nil
}
