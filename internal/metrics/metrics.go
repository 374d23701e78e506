// Package metrics exposes Prometheus instrumentation for the HTTP surface,
// the outbound integrations, and the caches in front of them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts served requests by method, route, and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_http_requests_total",
		Help: "HTTP requests served.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency per route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "folio_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// UpstreamRequests counts proxied third-party calls by outcome.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_upstream_requests_total",
		Help: "Outbound third-party API calls.",
	}, []string{"integration", "outcome"})

	// CacheRequests counts cache lookups by outcome (hit, miss, stale).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_cache_requests_total",
		Help: "TTL cache lookups guarding upstream calls.",
	}, []string{"cache", "outcome"})

	// SSEClients tracks connected event-stream clients.
	SSEClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "folio_sse_clients",
		Help: "Connected SSE clients.",
	})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveUpstream records the outcome of one upstream call.
func ObserveUpstream(integration string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequests.WithLabelValues(integration, outcome).Inc()
}
