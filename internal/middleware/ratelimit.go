package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitConfig configures IP-keyed request rate limiting.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Disabled bool
}

// RateLimit returns an httprate limiter keyed by real client IP, answering
// 429 with the standard JSON envelope when the window is exhausted.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Disabled || cfg.Requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
		}),
	)
}
