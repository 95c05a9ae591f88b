// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package catalog

import (
	"context"
	"errors"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/reconhq/recon/internal/logging"
	"github.com/reconhq/recon/internal/metrics"
	"github.com/reconhq/recon/internal/models"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("catalog circuit breaker is open")

// API is the catalog surface shared by Client and BreakerClient.
type API interface {
	HasAPIKey() bool
	GetDetail(ctx context.Context, id int) (models.CatalogItem, error)
	GetRecommendations(ctx context.Context, id int) ([]models.CatalogItem, error)
	GetGenreTaxonomy(ctx context.Context) (models.GenreTaxonomy, error)
}

// BreakerSettings tunes the circuit breaker. Zero values take the defaults
// of DefaultBreakerSettings.
type BreakerSettings struct {
	Name        string
	MaxRequests uint32        // probes allowed in half-open state
	Interval    time.Duration // closed-state count reset period
	Timeout     time.Duration // open-state duration before probing
	MinRequests uint32        // requests needed before tripping
	FailureRate float64       // failure ratio that trips the breaker
}

// DefaultBreakerSettings opens the circuit at a 60% failure rate over at
// least 10 requests and probes again after 30 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:        "tmdb-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		MinRequests: 10,
		FailureRate: 0.6,
	}
}

// BreakerClient wraps a catalog API with a circuit breaker.
//
// The breaker uses real time for its interval and timeout. Tests drive it
// through failure counts rather than the clock.
type BreakerClient struct {
	client API
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

// NewBreakerClient wraps client with a circuit breaker.
func NewBreakerClient(client API, settings BreakerSettings) *BreakerClient {
	defaults := DefaultBreakerSettings()
	if settings.Name == "" {
		settings.Name = defaults.Name
	}
	if settings.MaxRequests == 0 {
		settings.MaxRequests = defaults.MaxRequests
	}
	if settings.Interval == 0 {
		settings.Interval = defaults.Interval
	}
	if settings.Timeout == 0 {
		settings.Timeout = defaults.Timeout
	}
	if settings.MinRequests == 0 {
		settings.MinRequests = defaults.MinRequests
	}
	if settings.FailureRate == 0 {
		settings.FailureRate = defaults.FailureRate
	}

	metrics.CircuitBreakerState.WithLabelValues(settings.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= settings.FailureRate
			if shouldTrip {
				logging.Warn().
					Str("breaker", settings.Name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},

		IsSuccessful: isHealthyOutcome,
	})

	return &BreakerClient{
		client: client,
		cb:     cb,
		name:   settings.Name,
	}
}

// isHealthyOutcome reports whether err says nothing about upstream health:
// caller cancellation, a missing key, or a 4xx answer other than 429.
func isHealthyOutcome(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrMissingAPIKey) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 400 && statusErr.Code < 500 && statusErr.Code != http.StatusTooManyRequests
	}
	return false
}

// State returns the current breaker state name.
func (b *BreakerClient) State() string {
	return stateToString(b.cb.State())
}

// HasAPIKey reports whether the wrapped client is configured.
func (b *BreakerClient) HasAPIKey() bool {
	return b.client.HasAPIKey()
}

// GetDetail fetches a movie detail through the breaker.
func (b *BreakerClient) GetDetail(ctx context.Context, id int) (models.CatalogItem, error) {
	return execute(b, func() (models.CatalogItem, error) {
		return b.client.GetDetail(ctx, id)
	})
}

// GetRecommendations fetches recommendations through the breaker.
func (b *BreakerClient) GetRecommendations(ctx context.Context, id int) ([]models.CatalogItem, error) {
	return execute(b, func() ([]models.CatalogItem, error) {
		return b.client.GetRecommendations(ctx, id)
	})
}

// GetGenreTaxonomy fetches the genre list through the breaker.
func (b *BreakerClient) GetGenreTaxonomy(ctx context.Context) (models.GenreTaxonomy, error) {
	return execute(b, func() (models.GenreTaxonomy, error) {
		return b.client.GetGenreTaxonomy(ctx)
	})
}

// execute runs fn under the breaker and records the outcome.
func execute[T any](b *BreakerClient, fn func() (T, error)) (T, error) {
	var zero T

	result, err := b.cb.Execute(func() (any, error) {
		v, err := fn()
		return v, err
	})

	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", b.name).Msg("[CIRCUIT BREAKER] Request rejected")
			return zero, ErrCircuitOpen
		case isHealthyOutcome(err):
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "ignored").Inc()
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		}
		return zero, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()

	typed, ok := result.(T)
	if !ok {
		return zero, nil
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
