// Package middleware holds the folio-specific HTTP middleware: CSRF
// double-submit protection, the IP ban list, rate limiting, and request
// metrics.
package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"
)

// CSRF header and defaults.
const (
	CSRFHeader        = "X-CSRF-Token"
	DefaultCSRFCookie = "folio_csrf"
)

// CSRFConfig configures the double-submit cookie check.
type CSRFConfig struct {
	CookieName string
	CookieTTL  time.Duration
	Secure     bool
}

// CSRF issues a token cookie on safe requests and requires the matching
// X-CSRF-Token header on mutating ones. The cookie is intentionally readable
// by page scripts (double-submit pattern); the protection comes from the
// same-origin policy, not cookie secrecy.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCSRFCookie
	}
	if cfg.CookieTTL <= 0 {
		cfg.CookieTTL = 12 * time.Hour
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.CookieName)

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				if err != nil || cookie.Value == "" {
					issueCookie(w, cfg)
				}
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get(CSRFHeader)
			if err != nil || cookie.Value == "" || header == "" ||
				subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"csrf token missing or invalid"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func issueCookie(w http.ResponseWriter, cfg CSRFConfig) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    hex.EncodeToString(buf),
		Path:     "/",
		MaxAge:   int(cfg.CookieTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.Secure,
	})
}
