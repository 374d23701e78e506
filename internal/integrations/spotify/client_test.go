package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mkeller/folio/internal/apperr"
	"github.com/mkeller/folio/internal/fetch"
)

// stubSpotify serves the token endpoint and a configurable player endpoint.
func stubSpotify(t *testing.T, playerStatus int, playerBody string) (*Client, *atomic.Int32) {
	t.Helper()
	var tokenCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "refresh_token" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"at-1","expires_in":3600}`))
	})
	mux.HandleFunc("/me/player/currently-playing", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(playerStatus)
		if playerBody != "" {
			_, _ = w.Write([]byte(playerBody))
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "refresh",
		AccountsURL:  srv.URL,
		APIURL:       srv.URL,
	}
	return New(cfg, fetch.New("spotify", fetch.WithRetries(0))), &tokenCalls
}

func TestNowPlaying(t *testing.T) {
	body := `{"is_playing":true,"progress_ms":1000,"item":{"name":"Song","duration_ms":200000,` +
		`"album":{"name":"Album","images":[{"url":"http://img"}]},` +
		`"artists":[{"name":"Artist"}],"external_urls":{"spotify":"http://track"}}}`
	c, _ := stubSpotify(t, http.StatusOK, body)

	np, err := c.NowPlaying(context.Background())
	if err != nil {
		t.Fatalf("NowPlaying: %v", err)
	}
	if !np.IsPlaying {
		t.Error("expected playing")
	}
	if np.Track == nil || np.Track.Title != "Song" || np.Track.Artist != "Artist" {
		t.Errorf("track = %+v", np.Track)
	}
	if np.DurationMs != 200000 {
		t.Errorf("duration = %d", np.DurationMs)
	}
}

func TestNowPlayingNothingPlaying(t *testing.T) {
	c, _ := stubSpotify(t, http.StatusNoContent, "")

	np, err := c.NowPlaying(context.Background())
	if err != nil {
		t.Fatalf("204 should not be an error: %v", err)
	}
	if np.IsPlaying {
		t.Error("expected not playing")
	}
	if np.Track != nil {
		t.Error("expected nil track")
	}
}

func TestTokenReusedWithinExpiry(t *testing.T) {
	c, tokenCalls := stubSpotify(t, http.StatusNoContent, "")

	for i := 0; i < 3; i++ {
		if _, err := c.NowPlaying(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if got := tokenCalls.Load(); got != 1 {
		t.Errorf("token refreshes = %d, want 1", got)
	}
}

func TestDisabledWithoutCredentials(t *testing.T) {
	c := New(Config{}, fetch.New("spotify"))
	if c.Enabled() {
		t.Error("should be disabled")
	}
	_, err := c.NowPlaying(context.Background())
	if !errors.Is(err, apperr.ErrDisabled) {
		t.Errorf("err = %v, want ErrDisabled", err)
	}
}
