// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/reconhq/recon/internal/catalog"
	"github.com/reconhq/recon/internal/config"
	"github.com/reconhq/recon/internal/identity"
	"github.com/reconhq/recon/internal/logging"
	"github.com/reconhq/recon/internal/store"
)

// catalogStack is the TMDB client with its breaker and taxonomy cache.
type catalogStack struct {
	client *catalog.BreakerClient
	genres *catalog.GenreResolver
	shared *catalog.RedisTaxonomyStore
}

// Close releases the shared cache connection, if any.
func (c *catalogStack) Close() {
	if c.shared == nil {
		return
	}
	if err := c.shared.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing redis")
	}
}

func initCatalog(cfg *config.CatalogConfig) (*catalogStack, error) {
	client := catalog.NewBreakerClient(catalog.NewClient(cfg), catalog.DefaultBreakerSettings())

	stack := &catalogStack{client: client}
	var opts []catalog.ResolverOption

	if cfg.RedisURL != "" {
		shared, err := catalog.NewRedisTaxonomyStore(cfg.RedisURL, cfg.RedisKey)
		if err != nil {
			return nil, fmt.Errorf("genre cache: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := shared.Ping(ctx); err != nil {
			// The resolver treats shared cache errors as misses.
			logging.Warn().Err(err).Msg("Redis unreachable at startup; genre cache stays local until it recovers")
		} else {
			logging.Info().Str("key", cfg.RedisKey).Msg("Shared genre cache enabled")
		}
		stack.shared = shared
		opts = append(opts, catalog.WithSharedStore(shared))
	}

	stack.genres = catalog.NewGenreResolver(client, cfg.GenreTTL, cfg.GenreFallbackTTL, opts...)
	return stack, nil
}

// initStore opens the configured backend. It returns nil when no backend is
// configured so callers can skip store-backed features.
func initStore(cfg *config.StoreConfig) (store.Store, error) {
	if !cfg.Enabled() {
		logging.Info().Msg("No interaction store configured; signed-in requests fall back to catalog order")
		return nil, nil
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := st.Ping(ctx); err != nil {
		logging.Warn().Err(err).Str("backend", cfg.Backend).Msg("Store ping failed at startup")
	} else {
		logging.Info().Str("backend", cfg.Backend).Msg("Interaction store connected")
	}
	return st, nil
}

// initIdentity builds the resolver chain from what is configured. st may be
// nil.
func initIdentity(cfg *config.Config, st store.Store) (*identity.Chain, error) {
	var tokens store.TokenStore
	if st != nil {
		tokens = st
	}

	var users identity.UserLookup
	if cfg.Identity.SupabaseAuth {
		client, err := store.NewSupabaseClient(&cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("supabase auth: %w", err)
		}
		users = identity.NewSupabaseUserLookup(client)
	}

	chain, err := identity.FromConfig(&cfg.Identity, tokens, users)
	if err != nil {
		return nil, err
	}
	if chain.Len() == 0 {
		logging.Info().Msg("No identity resolvers enabled; every caller is anonymous")
	} else {
		logging.Info().Int("resolvers", chain.Len()).Msg("Identity resolvers configured")
	}
	return chain, nil
}
