// Package spotify proxies the handful of Spotify Web API endpoints the site
// shows: now playing, top tracks, top artists, and recently played.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mkeller/folio/internal/apperr"
	"github.com/mkeller/folio/internal/fetch"
)

// Default upstream hosts, overridable in tests.
const (
	DefaultAccountsURL = "https://accounts.spotify.com"
	DefaultAPIURL      = "https://api.spotify.com/v1"
)

// tokenSlack renews the access token slightly before it expires.
const tokenSlack = 30 * time.Second

// Config holds the OAuth refresh-token credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	AccountsURL  string
	APIURL       string
}

// Client talks to the Spotify Web API using the refresh-token grant.
type Client struct {
	cfg   Config
	fetch *fetch.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// New creates a Client. Empty hosts fall back to the public endpoints.
func New(cfg Config, f *fetch.Client) *Client {
	if cfg.AccountsURL == "" {
		cfg.AccountsURL = DefaultAccountsURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	return &Client{cfg: cfg, fetch: f}
}

// Enabled reports whether credentials are configured.
func (c *Client) Enabled() bool {
	return c.cfg.ClientID != "" && c.cfg.ClientSecret != "" && c.cfg.RefreshToken != ""
}

// Track is a trimmed Spotify track.
type Track struct {
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Album   string `json:"album,omitempty"`
	URL     string `json:"url,omitempty"`
	Image   string `json:"image,omitempty"`
	Preview string `json:"preview_url,omitempty"`
}

// Artist is a trimmed Spotify artist.
type Artist struct {
	Name      string   `json:"name"`
	Genres    []string `json:"genres,omitempty"`
	URL       string   `json:"url,omitempty"`
	Image     string   `json:"image,omitempty"`
	Followers int      `json:"followers"`
}

// NowPlaying is the current playback state.
type NowPlaying struct {
	IsPlaying  bool   `json:"is_playing"`
	Track      *Track `json:"track,omitempty"`
	ProgressMs int    `json:"progress_ms,omitempty"`
	DurationMs int    `json:"duration_ms,omitempty"`
}

// PlayedTrack is one recently played entry.
type PlayedTrack struct {
	Track    Track     `json:"track"`
	PlayedAt time.Time `json:"played_at"`
}

// Upstream wire shapes, decoded then trimmed.
type apiTrack struct {
	Name       string `json:"name"`
	DurationMs int    `json:"duration_ms"`
	PreviewURL string `json:"preview_url"`
	Album      struct {
		Name   string `json:"name"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

func (t apiTrack) trim() Track {
	out := Track{
		Title:   t.Name,
		Album:   t.Album.Name,
		URL:     t.ExternalURLs.Spotify,
		Preview: t.PreviewURL,
	}
	if len(t.Artists) > 0 {
		out.Artist = t.Artists[0].Name
	}
	if len(t.Album.Images) > 0 {
		out.Image = t.Album.Images[0].URL
	}
	return out
}

// NowPlaying returns the current playback state. A 204 from Spotify (nothing
// playing) maps to IsPlaying=false, not an error.
func (c *Client) NowPlaying(ctx context.Context) (NowPlaying, error) {
	header, err := c.bearer(ctx)
	if err != nil {
		return NowPlaying{}, err
	}

	var raw struct {
		IsPlaying  bool     `json:"is_playing"`
		ProgressMs int      `json:"progress_ms"`
		Item       apiTrack `json:"item"`
	}
	err = c.fetch.GetJSON(ctx, c.cfg.APIURL+"/me/player/currently-playing", header, &raw)
	if errors.Is(err, fetch.ErrNoContent) {
		return NowPlaying{IsPlaying: false}, nil
	}
	if err != nil {
		return NowPlaying{}, err
	}

	track := raw.Item.trim()
	return NowPlaying{
		IsPlaying:  raw.IsPlaying,
		Track:      &track,
		ProgressMs: raw.ProgressMs,
		DurationMs: raw.Item.DurationMs,
	}, nil
}

// TopTracks returns the user's short-term top tracks.
func (c *Client) TopTracks(ctx context.Context, limit int) ([]Track, error) {
	header, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var raw struct {
		Items []apiTrack `json:"items"`
	}
	u := fmt.Sprintf("%s/me/top/tracks?time_range=short_term&limit=%d", c.cfg.APIURL, limit)
	if err := c.fetch.GetJSON(ctx, u, header, &raw); err != nil {
		return nil, err
	}

	out := make([]Track, len(raw.Items))
	for i, item := range raw.Items {
		out[i] = item.trim()
	}
	return out, nil
}

// TopArtists returns the user's short-term top artists.
func (c *Client) TopArtists(ctx context.Context, limit int) ([]Artist, error) {
	header, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var raw struct {
		Items []struct {
			Name      string   `json:"name"`
			Genres    []string `json:"genres"`
			Followers struct {
				Total int `json:"total"`
			} `json:"followers"`
			Images []struct {
				URL string `json:"url"`
			} `json:"images"`
			ExternalURLs struct {
				Spotify string `json:"spotify"`
			} `json:"external_urls"`
		} `json:"items"`
	}
	u := fmt.Sprintf("%s/me/top/artists?time_range=short_term&limit=%d", c.cfg.APIURL, limit)
	if err := c.fetch.GetJSON(ctx, u, header, &raw); err != nil {
		return nil, err
	}

	out := make([]Artist, len(raw.Items))
	for i, item := range raw.Items {
		out[i] = Artist{
			Name:      item.Name,
			Genres:    item.Genres,
			URL:       item.ExternalURLs.Spotify,
			Followers: item.Followers.Total,
		}
		if len(item.Images) > 0 {
			out[i].Image = item.Images[0].URL
		}
	}
	return out, nil
}

// RecentlyPlayed returns the most recent playback history.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]PlayedTrack, error) {
	header, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	var raw struct {
		Items []struct {
			Track    apiTrack  `json:"track"`
			PlayedAt time.Time `json:"played_at"`
		} `json:"items"`
	}
	u := fmt.Sprintf("%s/me/player/recently-played?limit=%d", c.cfg.APIURL, limit)
	if err := c.fetch.GetJSON(ctx, u, header, &raw); err != nil {
		return nil, err
	}

	out := make([]PlayedTrack, len(raw.Items))
	for i, item := range raw.Items {
		out[i] = PlayedTrack{Track: item.Track.trim(), PlayedAt: item.PlayedAt}
	}
	return out, nil
}

// bearer returns an Authorization header, refreshing the access token through
// the refresh-token grant when the cached one is near expiry.
func (c *Client) bearer(ctx context.Context) (http.Header, error) {
	if !c.Enabled() {
		return nil, apperr.ErrDisabled
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp.Add(-tokenSlack)) {
		return fetch.BearerHeader(c.token), nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.cfg.RefreshToken)

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	header := fetch.BasicHeader(c.cfg.ClientID, c.cfg.ClientSecret)
	if err := c.fetch.PostForm(ctx, c.cfg.AccountsURL+"/api/token", header, form, &tok); err != nil {
		return nil, fmt.Errorf("spotify: token refresh: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("spotify: token refresh returned empty token: %w", apperr.ErrUpstream)
	}

	c.token = tok.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return fetch.BearerHeader(c.token), nil
}
