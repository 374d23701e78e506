// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/mkeller/folio/internal/api"
	"github.com/mkeller/folio/internal/cache"
	"github.com/mkeller/folio/internal/content"
	"github.com/mkeller/folio/internal/fetch"
	"github.com/mkeller/folio/internal/guestbook"
	"github.com/mkeller/folio/internal/integrations/analytics"
	"github.com/mkeller/folio/internal/integrations/githubapi"
	"github.com/mkeller/folio/internal/integrations/lanyard"
	"github.com/mkeller/folio/internal/integrations/spotify"
	"github.com/mkeller/folio/internal/integrations/wakatime"
	"github.com/mkeller/folio/internal/metrics"
	appmw "github.com/mkeller/folio/internal/middleware"
	"github.com/mkeller/folio/internal/presence"
	"github.com/mkeller/folio/internal/sse"
	"github.com/mkeller/folio/internal/stripe"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := app.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("content_path", cfg.Content.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure content directory exists.
	if err := os.MkdirAll(cfg.Content.Path, 0o755); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}

	// Content snapshot service.
	store, err := content.NewFSStore(cfg.Content.Path)
	if err != nil {
		return fmt.Errorf("init content store: %w", err)
	}
	contentSvc, err := content.NewService(store, logger)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	// Guestbook (SQLite).
	gbStore, err := guestbook.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init guestbook: %w", err)
	}
	defer gbStore.Close()

	gbSvc := guestbook.NewService(gbStore, cache.NewStore(ctx, cfg.Cache.Guestbook), logger)

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Third-party integrations behind their memo caches.
	ig, sources := buildIntegrations(cfg)
	logger.Info("Integrations configured",
		slog.Bool("spotify", ig.NowPlaying != nil),
		slog.Bool("wakatime", ig.WakaStats != nil),
		slog.Bool("analytics", ig.AnalyticsViews != nil),
		slog.Bool("github", ig.GitHubProfile != nil),
		slog.Bool("lanyard", ig.Presence != nil),
		slog.Bool("stripe", cfg.Integrations.Stripe.WebhookSecret != ""))

	// IP ban list.
	banList, err := appmw.NewBanList(cfg.Security.BannedIPs)
	if err != nil {
		return fmt.Errorf("parse ban list: %w", err)
	}

	stripeHandler := stripe.NewHandler(cfg.Integrations.Stripe.WebhookSecret, cfg.Integrations.Stripe.Tolerance, logger)

	sseHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.SSEClients.Inc()
		defer metrics.SSEClients.Dec()
		broker.ServeHTTP(w, r)
	})

	apiRouter := api.NewRouter(api.Deps{
		Integrations:  ig,
		Content:       contentSvc,
		Guestbook:     gbSvc,
		StripeWebhook: stripeHandler,
		SSE:           sseHandler,
		AdminEnabled:  cfg.Admin.Enabled(),
		AdminToken:    cfg.Admin.Token,
		CSRF: appmw.CSRF(appmw.CSRFConfig{
			CookieName: cfg.Security.CSRFCookie,
			CookieTTL:  cfg.Security.CSRFTTL,
		}),
		WriteLimit: appmw.RateLimit(appmw.RateLimitConfig{
			Requests: cfg.RateLimit.WriteRequests,
			Window:   cfg.RateLimit.WriteWindow,
			Disabled: cfg.RateLimit.Disabled,
		}),
	})

	// Build chi router.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(corsOptions(cfg.App.HTTP.CORSOrigins)))
	r.Use(banList.Middleware)
	r.Use(appmw.RateLimit(appmw.RateLimitConfig{
		Requests: cfg.RateLimit.Requests,
		Window:   cfg.RateLimit.Window,
		Disabled: cfg.RateLimit.Disabled,
	}))
	r.Use(appmw.Metrics)

	// Health check endpoints (open, uncounted against auth).
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		status := "ok"
		code := http.StatusOK
		dbErr := gbSvc.Ping(req.Context())
		if dbErr != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		writeHealth(w, code, map[string]any{
			"status": status,
			"checks": map[string]string{
				"content":   contentSvc.ETag(),
				"guestbook": healthCheck(dbErr),
			},
		})
	})
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		if err := gbSvc.Ping(req.Context()); err != nil {
			writeHealth(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
			return
		}
		writeHealth(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	// Prometheus metrics.
	r.Handle("/metrics", metrics.Handler())

	// Mount API routes under /api/v1.
	r.Mount("/api/v1", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Content hot reload with SSE notification.
	if cfg.Content.Watch {
		g.Go(func() error {
			err := content.Watch(gCtx, contentSvc, logger, func() {
				broker.PublishContentUpdated()
			})
			if err != nil {
				logger.Warn("content watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Presence poller feeding the SSE stream.
	if sources.NowPlaying != nil || sources.Presence != nil {
		poller := presence.NewPoller(cfg.Integrations.PollInterval, broker, sources, logger)
		g.Go(func() error {
			return poller.Run(gCtx)
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		broker.Close()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

func writeHealth(w http.ResponseWriter, code int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func healthCheck(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", appmw.CSRFHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// instrument wraps an upstream call with its memo cache and Prometheus
// counters. name labels both the cache and the outbound call series.
func instrument[T any](name string, ttl time.Duration, fn cache.FetchFunc[T]) cache.FetchFunc[T] {
	slot := cache.NewSlot(ttl, cache.WithObserver[T](func(outcome string) {
		metrics.CacheRequests.WithLabelValues(name, outcome).Inc()
	}))
	return func(ctx context.Context) (T, error) {
		return slot.Get(ctx, func(ctx context.Context) (T, error) {
			v, err := fn(ctx)
			metrics.ObserveUpstream(name, err)
			return v, err
		})
	}
}

// buildIntegrations constructs the configured upstream clients and returns
// the cache-fronted fetch functions for the API plus the sources feeding the
// presence poller. Unconfigured integrations stay nil.
func buildIntegrations(cfg *Config) (api.Integrations, presence.Sources) {
	var ig api.Integrations
	var sources presence.Sources

	if sp := spotify.New(spotify.Config{
		ClientID:     cfg.Integrations.Spotify.ClientID,
		ClientSecret: cfg.Integrations.Spotify.ClientSecret,
		RefreshToken: cfg.Integrations.Spotify.RefreshToken,
	}, fetch.New("spotify", fetch.WithRateLimit(5, 10))); sp.Enabled() {
		ig.NowPlaying = instrument("spotify_now_playing", cfg.Cache.NowPlaying, sp.NowPlaying)
		ig.TopTracks = instrument("spotify_top_tracks", cfg.Cache.Spotify,
			func(ctx context.Context) ([]spotify.Track, error) { return sp.TopTracks(ctx, 10) })
		ig.TopArtists = instrument("spotify_top_artists", cfg.Cache.Spotify,
			func(ctx context.Context) ([]spotify.Artist, error) { return sp.TopArtists(ctx, 10) })
		ig.RecentlyPlayed = instrument("spotify_recently_played", cfg.Cache.Spotify,
			func(ctx context.Context) ([]spotify.PlayedTrack, error) { return sp.RecentlyPlayed(ctx, 20) })
		sources.NowPlaying = ig.NowPlaying
	}

	if wk := wakatime.New(wakatime.Config{
		APIKey: cfg.Integrations.WakaTime.APIKey,
	}, fetch.New("wakatime", fetch.WithRateLimit(2, 4))); wk.Enabled() {
		ig.WakaStats = instrument("wakatime", cfg.Cache.WakaTime, wk.Stats)
	}

	if an := analytics.New(analytics.Config{
		Endpoint: cfg.Integrations.Analytics.Endpoint,
		APIKey:   cfg.Integrations.Analytics.APIKey,
	}, fetch.New("analytics", fetch.WithRateLimit(1, 2))); an.Enabled() {
		ig.AnalyticsViews = instrument("analytics", cfg.Cache.Analytics, an.Views)
	}

	if gh := githubapi.New(githubapi.Config{
		Username: cfg.Integrations.GitHub.Username,
		Token:    cfg.Integrations.GitHub.Token,
	}, fetch.New("github", fetch.WithRateLimit(2, 4))); gh.Enabled() {
		ig.GitHubProfile = instrument("github_profile", cfg.Cache.GitHub, gh.Profile)
		ig.GitHubRepos = instrument("github_repos", cfg.Cache.GitHub,
			func(ctx context.Context) ([]githubapi.Repo, error) { return gh.Repos(ctx, 12) })
	}

	if ly := lanyard.New(lanyard.Config{
		UserID: cfg.Integrations.Lanyard.UserID,
	}, fetch.New("lanyard", fetch.WithRateLimit(2, 4))); ly.Enabled() {
		ig.Presence = instrument("lanyard", cfg.Cache.Lanyard, ly.Presence)
		sources.Presence = ig.Presence
	}

	return ig, sources
}
