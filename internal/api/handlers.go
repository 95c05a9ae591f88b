// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/reconhq/recon/internal/recommend"
)

// Recommender runs the recommendation pipeline.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
}

// CallerResolver identifies the caller of a request.
type CallerResolver interface {
	Resolve(r *http.Request) (userID string, ok bool)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// anonymous resolves nobody.
type anonymous struct{}

func (anonymous) Resolve(*http.Request) (string, bool) { return "", false }

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response and parameter helpers
//   - handlers_health.go: liveness and readiness
//   - handlers_recommend.go: recommendation endpoint
type Handler struct {
	engine    Recommender
	resolver  CallerResolver
	readiness Readiness
	startTime time.Time
}

// Readiness describes what the readiness probe reports.
type Readiness struct {
	// CatalogConfigured is true when a catalog API key is present.
	CatalogConfigured bool

	// Store is pinged when non-nil.
	Store Pinger

	// IdentityEnabled is true when at least one resolver is configured.
	IdentityEnabled bool
}

// NewHandler creates the API handler. A nil resolver treats every caller as
// anonymous.
//
// Example:
//
//	handler := api.NewHandler(engine, chain, api.Readiness{CatalogConfigured: true})
//	router := api.NewRouter(handler, api.NewChiMiddleware(nil))
//	http.ListenAndServe(":5000", router.SetupChi())
func NewHandler(engine Recommender, resolver CallerResolver, readiness Readiness) *Handler {
	if resolver == nil {
		resolver = anonymous{}
	}
	return &Handler{
		engine:    engine,
		resolver:  resolver,
		readiness: readiness,
		startTime: time.Now(),
	}
}
