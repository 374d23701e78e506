// Package stripe verifies and dispatches Stripe webhook events. Handlers are
// logging stubs; there is no billing engine behind them.
package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// DefaultTolerance bounds how old a signed payload may be.
const DefaultTolerance = 5 * time.Minute

const maxPayload = 64 << 10

// Event is the decoded webhook envelope.
type Event struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// Handler verifies Stripe-Signature headers and dispatches events.
type Handler struct {
	secret    string
	tolerance time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandler creates a webhook handler with the given signing secret.
func NewHandler(secret string, tolerance time.Duration, logger *slog.Logger) *Handler {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Handler{
		secret:    secret,
		tolerance: tolerance,
		logger:    logger,
		now:       time.Now,
	}
}

// Enabled reports whether a signing secret is configured.
func (h *Handler) Enabled() bool {
	return h.secret != ""
}

// ServeHTTP handles POST /api/v1/webhooks/stripe.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.Enabled() {
		http.Error(w, `{"error":"integration disabled"}`, http.StatusServiceUnavailable)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayload))
	if err != nil {
		http.Error(w, `{"error":"failed to read body"}`, http.StatusBadRequest)
		return
	}

	if err := h.Verify(payload, r.Header.Get("Stripe-Signature")); err != nil {
		h.logger.Warn("stripe: signature rejected", slog.String("error", err.Error()))
		http.Error(w, `{"error":"invalid signature"}`, http.StatusBadRequest)
		return
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	h.dispatch(event)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"received":true}`))
}

// Verify checks the Stripe-Signature header against the payload. The header
// carries a timestamp and one or more v1 signatures; the signed message is
// "<timestamp>.<payload>" HMAC-SHA256'd with the endpoint secret.
func (h *Handler) Verify(payload []byte, header string) error {
	ts, sigs, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	age := h.now().Sub(time.Unix(ts, 0))
	if age > h.tolerance || age < -h.tolerance {
		return fmt.Errorf("timestamp outside tolerance (%s)", age)
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range sigs {
		if hmac.Equal(sig, expected) {
			return nil
		}
	}
	return fmt.Errorf("no matching v1 signature")
}

func parseSignatureHeader(header string) (ts int64, sigs [][]byte, err error) {
	if header == "" {
		return 0, nil, fmt.Errorf("missing Stripe-Signature header")
	}
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts, err = strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("bad timestamp: %w", err)
			}
		case "v1":
			sig, decErr := hex.DecodeString(v)
			if decErr != nil {
				continue
			}
			sigs = append(sigs, sig)
		}
	}
	if ts == 0 {
		return 0, nil, fmt.Errorf("signature header missing timestamp")
	}
	if len(sigs) == 0 {
		return 0, nil, fmt.Errorf("signature header missing v1 signature")
	}
	return ts, sigs, nil
}

// dispatch routes known lifecycle events to their logging stubs. Unknown
// events are acknowledged and logged at debug level.
func (h *Handler) dispatch(event Event) {
	attrs := []any{
		slog.String("event_id", event.ID),
		slog.String("event_type", event.Type),
	}

	switch {
	case strings.HasPrefix(event.Type, "customer.subscription."):
		h.logger.Info("stripe: subscription lifecycle event", attrs...)
	case strings.HasPrefix(event.Type, "product."):
		h.logger.Info("stripe: product lifecycle event", attrs...)
	case event.Type == "checkout.session.completed":
		h.logger.Info("stripe: checkout completed", attrs...)
	default:
		h.logger.Debug("stripe: unhandled event", attrs...)
	}
}
