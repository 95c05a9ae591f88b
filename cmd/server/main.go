// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/reconhq/recon/internal/api"
	"github.com/reconhq/recon/internal/config"
	"github.com/reconhq/recon/internal/logging"
	"github.com/reconhq/recon/internal/recommend"
	"github.com/reconhq/recon/internal/recommend/reranking"
	"github.com/reconhq/recon/internal/supervisor"
	"github.com/reconhq/recon/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "recon",
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Recon failed")
	}
	logging.Info().Msg("Recon stopped")
}

// run builds every component and serves until the root context ends. It
// returns instead of exiting so the deferred closes always run.
func run(cfg *config.Config) error {
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("store_backend", cfg.Store.Backend).
		Bool("catalog_key", cfg.Catalog.HasAPIKey()).
		Msg("Starting Recon")

	if !cfg.Catalog.HasAPIKey() {
		logging.Warn().Msg("TMDB_API_KEY is not set; recommendation requests will fail until it is configured")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin while caller identity is enabled; set CORS_ORIGINS")
	}

	cat, err := initCatalog(&cfg.Catalog)
	if err != nil {
		return fmt.Errorf("initialize catalog: %w", err)
	}
	defer cat.Close()

	st, err := initStore(&cfg.Store)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() {
		if st == nil {
			return
		}
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	chain, err := initIdentity(cfg, st)
	if err != nil {
		return fmt.Errorf("initialize identity resolvers: %w", err)
	}

	var history recommend.InteractionStore
	if st != nil {
		history = st
	}
	engine, err := recommend.NewEngine(cfg.Recommend, cat.client, cat.genres, history,
		reranking.NewPersonalized(cfg.Recommend), logging.Logger())
	if err != nil {
		return fmt.Errorf("create recommendation engine: %w", err)
	}

	readiness := api.Readiness{
		CatalogConfigured: cfg.Catalog.HasAPIKey(),
		IdentityEnabled:   chain.Len() > 0,
	}
	if st != nil {
		readiness.Store = st
	}

	handler := api.NewHandler(engine, chain, readiness)
	chiMW := api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Security))
	router := api.NewRouter(handler, chiMW)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if cfg.Catalog.GenreWarmInterval > 0 && cfg.Catalog.HasAPIKey() {
		tree.AddCacheService(services.NewGenreWarmerService(cat.genres, services.GenreWarmerConfig{
			RefreshOnStartup: true,
			Interval:         cfg.Catalog.GenreWarmInterval,
			Timeout:          cfg.Catalog.Timeout,
		}, logging.Logger()))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Logger()))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The channel receives exactly once and is never closed.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}
