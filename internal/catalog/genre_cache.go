// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/reconhq/recon/internal/logging"
	"github.com/reconhq/recon/internal/metrics"
	"github.com/reconhq/recon/internal/models"
)

// Default taxonomy cache lifetimes.
const (
	DefaultGenreTTL         = 24 * time.Hour
	DefaultGenreFallbackTTL = 5 * time.Minute
)

// ErrTaxonomyNotCached is returned by a SharedTaxonomyStore with no entry.
var ErrTaxonomyNotCached = errors.New("genre taxonomy not cached")

// TaxonomySource fetches the authoritative genre list.
type TaxonomySource interface {
	GetGenreTaxonomy(ctx context.Context) (models.GenreTaxonomy, error)
}

// SharedTaxonomyStore is a cache shared between server instances.
type SharedTaxonomyStore interface {
	// Load returns the cached taxonomy and its remaining lifetime, or
	// ErrTaxonomyNotCached.
	Load(ctx context.Context) (models.GenreTaxonomy, time.Duration, error)
	Save(ctx context.Context, taxonomy models.GenreTaxonomy, ttl time.Duration) error
}

// GenreResolver caches the genre taxonomy. Resolve never fails: a fetch error
// caches an empty taxonomy for the fallback TTL so a failing catalog is not
// hammered on every request.
//
// The mutex only guards the (value, expiry) pair. Concurrent misses each
// fetch, and the last write wins.
type GenreResolver struct {
	source      TaxonomySource
	shared      SharedTaxonomyStore
	ttl         time.Duration
	fallbackTTL time.Duration
	now         func() time.Time

	mu      sync.Mutex
	value   models.GenreTaxonomy
	expires time.Time
}

// ResolverOption configures a GenreResolver.
type ResolverOption func(*GenreResolver)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *GenreResolver) {
		r.now = now
	}
}

// WithSharedStore adds a second-level cache consulted before the source.
func WithSharedStore(store SharedTaxonomyStore) ResolverOption {
	return func(r *GenreResolver) {
		r.shared = store
	}
}

// NewGenreResolver creates a resolver. Non-positive TTLs take the defaults.
func NewGenreResolver(source TaxonomySource, ttl, fallbackTTL time.Duration, opts ...ResolverOption) *GenreResolver {
	if ttl <= 0 {
		ttl = DefaultGenreTTL
	}
	if fallbackTTL <= 0 {
		fallbackTTL = DefaultGenreFallbackTTL
	}

	r := &GenreResolver{
		source:      source,
		ttl:         ttl,
		fallbackTTL: fallbackTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the current taxonomy. The returned map is shared and must
// not be modified.
func (r *GenreResolver) Resolve(ctx context.Context) models.GenreTaxonomy {
	if cached, ok := r.cached(); ok {
		metrics.RecordGenreCacheLookup("hit")
		return cached
	}

	if taxonomy, ok := r.loadShared(ctx); ok {
		metrics.RecordGenreCacheLookup("shared_hit")
		return taxonomy
	}

	taxonomy, err := r.source.GetGenreTaxonomy(ctx)
	if err != nil {
		// A cancelled caller is not a catalog failure. Nothing is cached.
		if ctx.Err() != nil {
			logging.Ctx(ctx).Debug().Err(err).Msg("genre taxonomy fetch abandoned by caller")
			metrics.RecordGenreCacheLookup("abandoned")
			return models.GenreTaxonomy{}
		}
		logging.Ctx(ctx).Warn().
			Err(err).
			Dur("retry_in", r.fallbackTTL).
			Msg("genre taxonomy unavailable, caching empty fallback")
		empty := models.GenreTaxonomy{}
		r.store(empty, r.fallbackTTL)
		metrics.RecordGenreCacheLookup("fallback")
		return empty
	}

	taxonomy = r.accept(ctx, taxonomy)
	metrics.RecordGenreCacheLookup("refresh")
	return taxonomy
}

// Refresh fetches the taxonomy from the source regardless of the cached
// entry. On failure the current entry is kept and the error returned.
func (r *GenreResolver) Refresh(ctx context.Context) error {
	taxonomy, err := r.source.GetGenreTaxonomy(ctx)
	if err != nil {
		return fmt.Errorf("refresh genre taxonomy: %w", err)
	}
	r.accept(ctx, taxonomy)
	metrics.RecordGenreCacheLookup("refresh")
	return nil
}

// Expires returns when the in-memory entry goes stale, or the zero time
// when nothing is cached.
func (r *GenreResolver) Expires() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.value == nil {
		return time.Time{}
	}
	return r.expires
}

// accept stores a fetched taxonomy. A nil result is stored as empty so it
// still counts as cached.
func (r *GenreResolver) accept(ctx context.Context, taxonomy models.GenreTaxonomy) models.GenreTaxonomy {
	if taxonomy == nil {
		taxonomy = models.GenreTaxonomy{}
	}
	r.store(taxonomy, r.ttl)
	if r.shared != nil && len(taxonomy) > 0 {
		if err := r.shared.Save(ctx, taxonomy, r.ttl); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("failed to share genre taxonomy")
		}
	}
	return taxonomy
}

// Invalidate drops the in-memory entry.
func (r *GenreResolver) Invalidate() {
	r.mu.Lock()
	r.value = nil
	r.expires = time.Time{}
	r.mu.Unlock()
}

func (r *GenreResolver) cached() (models.GenreTaxonomy, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.value == nil || !r.now().Before(r.expires) {
		return nil, false
	}
	return r.value, true
}

func (r *GenreResolver) store(taxonomy models.GenreTaxonomy, ttl time.Duration) {
	r.mu.Lock()
	r.value = taxonomy
	r.expires = r.now().Add(ttl)
	r.mu.Unlock()
}

// loadShared only accepts non-empty entries so one instance's fallback is
// never adopted by the others.
func (r *GenreResolver) loadShared(ctx context.Context) (models.GenreTaxonomy, bool) {
	if r.shared == nil {
		return nil, false
	}

	taxonomy, remaining, err := r.shared.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrTaxonomyNotCached) {
			logging.Ctx(ctx).Warn().Err(err).Msg("shared genre cache unavailable")
		}
		return nil, false
	}
	if len(taxonomy) == 0 || remaining <= 0 {
		return nil, false
	}

	r.store(taxonomy, min(remaining, r.ttl))
	return taxonomy, true
}
