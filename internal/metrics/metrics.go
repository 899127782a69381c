// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClassificationsTotal counts classification outcomes by group slug.
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taste_classifications_total",
			Help: "Total number of classification requests by resulting group",
		},
		[]string{"group"},
	)

	// ClassificationDuration observes end-to-end classification time.
	ClassificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taste_classification_duration_seconds",
			Help:    "End-to-end classification latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
	)

	// TrackFailures counts tracks skipped during extraction.
	TrackFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taste_track_extraction_failures_total",
			Help: "Total number of tracks skipped because extraction failed",
		},
		[]string{"reason"}, // "error", "panic", "timeout"
	)

	// ArtistCacheLookups counts per-request artist genre cache hits and misses.
	ArtistCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taste_artist_cache_lookups_total",
			Help: "Request-scoped artist genre cache lookups",
		},
		[]string{"result"}, // "hit", "miss"
	)

	// LyricsLookups counts lyric lookups by outcome.
	LyricsLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taste_lyrics_lookups_total",
			Help: "Total number of lyric lookups by outcome",
		},
		[]string{"outcome"}, // "found", "not_found", "error", "disabled"
	)

	// CircuitBreakerState is the current state of each named breaker.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "taste_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// HTTPRequestsTotal counts served requests by route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taste_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)
)
