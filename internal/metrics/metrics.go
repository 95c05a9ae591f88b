// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

// Package metrics registers the Prometheus collectors exported on /metrics.
//
// Collectors are package-level and registered with the default registry via
// promauto; call sites use the Record* helpers rather than the vectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recon_api_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recon_api_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recon_api_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Catalog (TMDB) metrics
	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recon_catalog_requests_total",
			Help: "Total number of catalog API requests",
		},
		[]string{"operation", "result"}, // result: "success", "error"
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recon_catalog_request_duration_seconds",
			Help:    "Catalog API request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// Genre taxonomy cache metrics
	GenreCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recon_genre_cache_lookups_total",
			Help: "Genre taxonomy cache lookups by result",
		},
		[]string{"result"}, // "hit", "shared_hit", "refresh", "fallback"
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recon_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recon_circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "ignored", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recon_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Recommendation metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recon_recommendations_total",
			Help: "Recommendation requests by pipeline outcome",
		},
		[]string{"outcome"}, // "unpersonalized", "degraded", "personalized", "error"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recon_recommendation_duration_seconds",
			Help:    "End-to-end recommendation pipeline latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	EnrichmentDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recon_history_enrichment_degraded_total",
			Help: "History rows kept without catalog detail after a fetch failure",
		},
		[]string{"status"},
	)

	// Identity metrics
	IdentityResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recon_identity_resolutions_total",
			Help: "Caller identity resolution results by resolver",
		},
		[]string{"resolver", "result"}, // result: "resolved", "rejected", "error"
	)

	// Interaction store metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recon_store_query_duration_seconds",
			Help:    "Interaction store query latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "table"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recon_store_query_errors_total",
			Help: "Total number of interaction store query errors",
		},
		[]string{"backend", "table"},
	)
)

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCatalogRequest records one catalog API call.
func RecordCatalogRequest(operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	CatalogRequestsTotal.WithLabelValues(operation, result).Inc()
	CatalogRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordGenreCacheLookup records a taxonomy cache lookup result.
func RecordGenreCacheLookup(result string) {
	GenreCacheLookups.WithLabelValues(result).Inc()
}

// RecordRecommendation records one pipeline run.
func RecordRecommendation(outcome string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordEnrichmentDegraded counts a history row kept without catalog detail.
func RecordEnrichmentDegraded(status string) {
	EnrichmentDegraded.WithLabelValues(status).Inc()
}

// RecordIdentityResolution records the result of one resolver attempt.
func RecordIdentityResolution(resolver, result string) {
	IdentityResolutions.WithLabelValues(resolver, result).Inc()
}

// RecordStoreQuery records one interaction store query.
func RecordStoreQuery(backend, table string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(backend, table).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(backend, table).Inc()
	}
}
