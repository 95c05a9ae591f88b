// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// GenreWarmer refreshes the cached genre taxonomy from the catalog.
// Satisfied by *catalog.GenreResolver.
type GenreWarmer interface {
	Refresh(ctx context.Context) error
}

// GenreWarmerConfig controls when the taxonomy is refreshed.
type GenreWarmerConfig struct {
	// RefreshOnStartup fetches the taxonomy as soon as the service starts.
	RefreshOnStartup bool

	// Interval between refreshes. Default: 24h
	Interval time.Duration

	// Timeout bounds a single refresh. Default: 30s
	Timeout time.Duration
}

// GenreWarmerService keeps the genre taxonomy warm so recommendation
// requests rarely pay for the taxonomy fetch. Refresh failures are logged
// and retried on the next tick; the previous taxonomy stays in place.
type GenreWarmerService struct {
	warmer GenreWarmer
	config GenreWarmerConfig
	logger zerolog.Logger
	name   string
}

// NewGenreWarmerService creates the warmer service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGenreWarmerService(warmer GenreWarmer, cfg GenreWarmerConfig, logger zerolog.Logger) *GenreWarmerService {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &GenreWarmerService{
		warmer: warmer,
		config: cfg,
		logger: logger.With().Str("service", "genre_warmer").Logger(),
		name:   "genre-warmer",
	}
}

// Serve implements suture.Service.
func (s *GenreWarmerService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("refresh_on_startup", s.config.RefreshOnStartup).
		Dur("interval", s.config.Interval).
		Msg("genre warmer starting")

	if s.config.RefreshOnStartup {
		if err := s.refresh(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("initial genre refresh failed (will retry on schedule)")
		}
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("genre warmer shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.refresh(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled genre refresh failed")
			}
		}
	}
}

func (s *GenreWarmerService) refresh(ctx context.Context) error {
	refreshCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	if err := s.warmer.Refresh(refreshCtx); err != nil {
		return err
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("genre taxonomy refreshed")
	return nil
}

// String names the service in supervisor logs.
func (s *GenreWarmerService) String() string {
	return s.name
}
