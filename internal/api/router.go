package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkeller/folio/internal/content"
	"github.com/mkeller/folio/internal/guestbook"
)

// Deps holds everything the router mounts. Nil handlers are skipped so the
// server can run with integrations disabled.
type Deps struct {
	Integrations Integrations
	Content      *content.Service
	Guestbook    *guestbook.Service

	// StripeWebhook is mounted at POST /webhooks/stripe, outside CSRF.
	StripeWebhook http.Handler

	// SSE, if non-nil, is mounted at GET /events.
	SSE http.Handler

	AdminEnabled bool
	AdminToken   string

	// CSRF guards browser-originated writes. Applied to the guestbook
	// routes only; webhooks carry their own signatures.
	CSRF func(http.Handler) http.Handler

	// WriteLimit is a stricter rate limit for the guestbook write path.
	WriteLimit func(http.Handler) http.Handler
}

// NewRouter creates the chi router mounted at /api/v1.
func NewRouter(d Deps) chi.Router {
	ch := NewContentHandler(d.Content)
	gh := NewGuestbookHandler(d.Guestbook)

	r := chi.NewRouter()

	// Third-party proxies.
	r.Get("/spotify/now-playing", proxy("now playing", d.Integrations.NowPlaying))
	r.Get("/spotify/top-tracks", proxy("top tracks", d.Integrations.TopTracks))
	r.Get("/spotify/top-artists", proxy("top artists", d.Integrations.TopArtists))
	r.Get("/spotify/recently-played", proxy("recently played", d.Integrations.RecentlyPlayed))
	r.Get("/wakatime/stats", proxy("coding stats", d.Integrations.WakaStats))
	r.Get("/analytics/views", proxy("analytics", d.Integrations.AnalyticsViews))
	r.Get("/github/profile", proxy("github profile", d.Integrations.GitHubProfile))
	r.Get("/github/repos", proxy("github repos", d.Integrations.GitHubRepos))
	r.Get("/lanyard/presence", proxy("presence", d.Integrations.Presence))

	// Content.
	r.Get("/projects", ch.ListProjects)
	r.Get("/projects/{slug}", ch.GetProject)
	r.Get("/certifications", ch.ListCertifications)
	r.Get("/places", ch.ListPlaces)
	r.Get("/resume", ch.GetResume)
	r.Get("/presentations", ch.ListPresentations)
	r.Get("/talks", ch.ListTalks)
	r.Get("/articles", ch.ListArticles)
	r.Get("/articles/{slug}", ch.GetArticle)

	// Guestbook. The write path goes through CSRF and the stricter limiter.
	r.Route("/guestbook", func(r chi.Router) {
		if d.CSRF != nil {
			r.Use(d.CSRF)
		}
		r.Get("/", gh.List)
		r.Group(func(r chi.Router) {
			if d.WriteLimit != nil {
				r.Use(d.WriteLimit)
			}
			r.Post("/", gh.Create)
		})
		r.With(AdminAuth(d.AdminEnabled, d.AdminToken)).Delete("/{id}", gh.Delete)
	})

	// Stripe webhook. Signature-verified, no CSRF.
	if d.StripeWebhook != nil {
		r.Post("/webhooks/stripe", d.StripeWebhook.ServeHTTP)
	}

	// SSE stream.
	if d.SSE != nil {
		r.Get("/events", d.SSE.ServeHTTP)
	}

	return r
}
