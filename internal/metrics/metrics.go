// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog upstream
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Catalog API requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"}, // outcome: ok, not_found, status, malformed, error
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Latency of catalog API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Recommendation pipeline
	PagesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_pages_skipped_total",
			Help: "Discovery pages skipped because the upstream call failed",
		},
	)

	EnrichmentFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_enrichment_failures_total",
			Help: "Detail lookups that fell back to an unknown runtime",
		},
	)

	CandidatesFetched = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_candidates_fetched",
			Help:    "Candidates returned by the discovery fan-out per request",
			Buckets: []float64{0, 5, 10, 20, 40, 60, 80, 100},
		},
	)

	ResultsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_results_returned",
			Help:    "Ranked results returned per request",
			Buckets: []float64{0, 1, 2, 5, 10, 20},
		},
	)

	// HTTP surface
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern, method and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)
)
