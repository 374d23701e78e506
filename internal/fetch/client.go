// Package fetch provides the outbound HTTP client shared by all
// third-party integrations: JSON decoding, a fixed retry count, a per-client
// circuit breaker, and outbound rate limiting.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/mkeller/folio/internal/apperr"
)

// ErrNoContent is returned when the upstream answers 204 (e.g. Spotify when
// nothing is playing).
var ErrNoContent = errors.New("no content")

const (
	defaultRetries = 2
	retryBackoff   = 250 * time.Millisecond
	maxBody        = 4 << 20
)

// Client is an outbound HTTP client for one integration.
type Client struct {
	name    string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	limiter *rate.Limiter
	retries int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithRateLimit caps outbound requests per second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// New creates a Client named after its integration. The name shows up in the
// circuit breaker state and in wrapped errors.
func New(name string, opts ...Option) *Client {
	c := &Client{
		name:    name,
		http:    &http.Client{Timeout: 10 * time.Second},
		retries: defaultRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 204s and upstream 4xx are not outages; only transport failures
		// and 5xx should trip the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoContent) || errors.Is(err, apperr.ErrUpstream)
		},
	})
	return c
}

// GetJSON issues a GET and decodes the JSON response into out.
// out may be nil to discard the body.
func (c *Client) GetJSON(ctx context.Context, rawURL string, header http.Header, out any) error {
	body, err := c.do(ctx, http.MethodGet, rawURL, header, "", nil)
	if err != nil {
		return err
	}
	return c.decode(body, out)
}

// PostForm issues a form-encoded POST and decodes the JSON response into out.
func (c *Client) PostForm(ctx context.Context, rawURL string, header http.Header, form url.Values, out any) error {
	body, err := c.do(ctx, http.MethodPost, rawURL, header,
		"application/x-www-form-urlencoded", []byte(form.Encode()))
	if err != nil {
		return err
	}
	return c.decode(body, out)
}

func (c *Client) decode(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	return nil
}

// do runs the request through the circuit breaker with retries. Responses
// with 5xx status and transport errors are retried; 4xx is terminal.
func (c *Client) do(ctx context.Context, method, rawURL string, header http.Header, contentType string, payload []byte) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.attemptAll(ctx, method, rawURL, header, contentType, payload)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: circuit open: %w", c.name, apperr.ErrUnavailable)
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) attemptAll(ctx context.Context, method, rawURL string, header http.Header, contentType string, payload []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		}

		body, retryable, err := c.attempt(ctx, method, rawURL, header, contentType, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%s: %v: %w", c.name, lastErr, apperr.ErrUnavailable)
}

func (c *Client) attempt(ctx context.Context, method, rawURL string, header http.Header, contentType string, payload []byte) (body []byte, retryable bool, err error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, false, fmt.Errorf("%s: build request: %w", c.name, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%s: request: %w", c.name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil, false, ErrNoContent
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%s: status %d", c.name, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("%s: status %d: %w", c.name, resp.StatusCode, apperr.ErrUpstream)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, true, fmt.Errorf("%s: read body: %w", c.name, err)
	}
	return data, false, nil
}

// BearerHeader builds an Authorization header carrying a bearer token.
func BearerHeader(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	return h
}

// BasicHeader builds an Authorization header carrying basic credentials.
func BasicHeader(user, pass string) http.Header {
	req := &http.Request{Header: http.Header{}}
	req.SetBasicAuth(user, pass)
	return req.Header
}
