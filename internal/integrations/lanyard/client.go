// Package lanyard proxies Discord presence through the Lanyard API.
package lanyard

import (
	"context"
	"fmt"

	"github.com/mkeller/folio/internal/apperr"
	"github.com/mkeller/folio/internal/fetch"
)

// DefaultAPIURL is the public Lanyard host.
const DefaultAPIURL = "https://api.lanyard.rest/v1"

// Config identifies the Discord user whose presence is shown.
type Config struct {
	UserID string
	APIURL string
}

// Client fetches presence snapshots.
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

// Enabled reports whether a user id is configured.
func (c *Client) Enabled() bool {
	return c.cfg.UserID != ""
}

// Activity is one Discord activity line.
type Activity struct {
	Name    string `json:"name"`
	State   string `json:"state,omitempty"`
	Details string `json:"details,omitempty"`
}

// Presence is the trimmed Lanyard presence snapshot.
type Presence struct {
	Status             string     `json:"status"`
	Username           string     `json:"username,omitempty"`
	Activities         []Activity `json:"activities,omitempty"`
	ListeningToSpotify bool       `json:"listening_to_spotify"`
}

// Presence fetches the configured user's presence.
func (c *Client) Presence(ctx context.Context) (Presence, error) {
	if !c.Enabled() {
		return Presence{}, apperr.ErrDisabled
	}

	var raw struct {
		Success bool `json:"success"`
		Data    struct {
			DiscordStatus string `json:"discord_status"`
			DiscordUser   struct {
				Username string `json:"username"`
			} `json:"discord_user"`
			Activities         []Activity `json:"activities"`
			ListeningToSpotify bool       `json:"listening_to_spotify"`
		} `json:"data"`
	}
	u := fmt.Sprintf("%s/users/%s", c.cfg.APIURL, c.cfg.UserID)
	if err := c.fetch.GetJSON(ctx, u, nil, &raw); err != nil {
		return Presence{}, err
	}
	if !raw.Success {
		return Presence{}, fmt.Errorf("lanyard: unsuccessful response: %w", apperr.ErrUpstream)
	}

	return Presence{
		Status:             raw.Data.DiscordStatus,
		Username:           raw.Data.DiscordUser.Username,
		Activities:         raw.Data.Activities,
		ListeningToSpotify: raw.Data.ListeningToSpotify,
	}, nil
}
