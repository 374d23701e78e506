// Package githubapi proxies the public GitHub profile and repository list.
package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/mkeller/folio/internal/apperr"
	"github.com/mkeller/folio/internal/fetch"
)

// DefaultAPIURL is the public GitHub REST API host.
const DefaultAPIURL = "https://api.github.com"

// Config identifies the account to proxy. Token is optional and only raises
// the rate limit.
type Config struct {
	Username string
	Token    string
	APIURL   string
}

// Client fetches profile and repository data.
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

// Enabled reports whether a username is configured.
func (c *Client) Enabled() bool {
	return c.cfg.Username != ""
}

// Profile is the trimmed GitHub user profile.
type Profile struct {
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	URL         string `json:"url"`
	Followers   int    `json:"followers"`
	PublicRepos int    `json:"public_repos"`
}

// Repo is a trimmed repository entry.
type Repo struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	URL         string    `json:"url"`
	PushedAt    time.Time `json:"pushed_at"`
}

func (c *Client) header() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/vnd.github+json")
	if c.cfg.Token != "" {
		h.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	return h
}

// Profile fetches the configured user's profile.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	if !c.Enabled() {
		return Profile{}, apperr.ErrDisabled
	}

	var raw struct {
		Login       string `json:"login"`
		Name        string `json:"name"`
		Bio         string `json:"bio"`
		AvatarURL   string `json:"avatar_url"`
		HTMLURL     string `json:"html_url"`
		Followers   int    `json:"followers"`
		PublicRepos int    `json:"public_repos"`
	}
	u := fmt.Sprintf("%s/users/%s", c.cfg.APIURL, c.cfg.Username)
	if err := c.fetch.GetJSON(ctx, u, c.header(), &raw); err != nil {
		return Profile{}, err
	}

	return Profile{
		Login:       raw.Login,
		Name:        raw.Name,
		Bio:         raw.Bio,
		AvatarURL:   raw.AvatarURL,
		URL:         raw.HTMLURL,
		Followers:   raw.Followers,
		PublicRepos: raw.PublicRepos,
	}, nil
}

// Repos fetches the user's repositories, forks excluded, sorted by stars.
func (c *Client) Repos(ctx context.Context, limit int) ([]Repo, error) {
	if !c.Enabled() {
		return nil, apperr.ErrDisabled
	}
	if limit <= 0 || limit > 100 {
		limit = 12
	}

	var raw []struct {
		Name        string    `json:"name"`
		Description string    `json:"description"`
		Language    string    `json:"language"`
		Stars       int       `json:"stargazers_count"`
		Forks       int       `json:"forks_count"`
		Fork        bool      `json:"fork"`
		Archived    bool      `json:"archived"`
		HTMLURL     string    `json:"html_url"`
		PushedAt    time.Time `json:"pushed_at"`
	}
	u := fmt.Sprintf("%s/users/%s/repos?per_page=100&sort=pushed", c.cfg.APIURL, c.cfg.Username)
	if err := c.fetch.GetJSON(ctx, u, c.header(), &raw); err != nil {
		return nil, err
	}

	out := make([]Repo, 0, len(raw))
	for _, r := range raw {
		if r.Fork || r.Archived {
			continue
		}
		out = append(out, Repo{
			Name:        r.Name,
			Description: r.Description,
			Language:    r.Language,
			Stars:       r.Stars,
			Forks:       r.Forks,
			URL:         r.HTMLURL,
			PushedAt:    r.PushedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stars > out[j].Stars })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
