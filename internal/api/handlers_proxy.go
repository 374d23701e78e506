package api

import (
	"context"
	"net/http"

	"github.com/mkeller/folio/internal/integrations/analytics"
	"github.com/mkeller/folio/internal/integrations/githubapi"
	"github.com/mkeller/folio/internal/integrations/lanyard"
	"github.com/mkeller/folio/internal/integrations/spotify"
	"github.com/mkeller/folio/internal/integrations/wakatime"
)

// Integrations bundles the cache-fronted fetch functions behind the proxy
// routes. A nil function means the integration is disabled and its route
// answers 503.
type Integrations struct {
	NowPlaying     func(ctx context.Context) (spotify.NowPlaying, error)
	TopTracks      func(ctx context.Context) ([]spotify.Track, error)
	TopArtists     func(ctx context.Context) ([]spotify.Artist, error)
	RecentlyPlayed func(ctx context.Context) ([]spotify.PlayedTrack, error)
	WakaStats      func(ctx context.Context) (wakatime.Stats, error)
	AnalyticsViews func(ctx context.Context) (analytics.Views, error)
	GitHubProfile  func(ctx context.Context) (githubapi.Profile, error)
	GitHubRepos    func(ctx context.Context) ([]githubapi.Repo, error)
	Presence       func(ctx context.Context) (lanyard.Presence, error)
}

// proxy adapts a fetch function into a GET handler with the uniform error
// envelope. Every proxy route is the same cache-or-fetch-or-503 shape.
func proxy[T any](what string, fn func(ctx context.Context) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if fn == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorBody("integration disabled"))
			return
		}
		v, err := fn(r.Context())
		if err != nil {
			respondError(w, what, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}
