// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

/*
Package store reads tracked-item history and extension tokens.

Two backends share the same contract: SupabaseStore talks to the hosted
PostgREST endpoint with a service role key, and GormStore connects to the
same schema directly over Postgres. Both return interaction records most
recent first and map a missing status to watchlist.

Tables:

	watchlist(user_id, movie_id, movie_title, status, created_at)
	extension_tokens(user_id, token_hash, created_at)
*/
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/reconhq/recon/internal/config"
	"github.com/reconhq/recon/internal/models"
)

const (
	tableWatchlist       = "watchlist"
	tableExtensionTokens = "extension_tokens"
)

var (
	// ErrNotConfigured is returned when no store backend is configured.
	ErrNotConfigured = errors.New("interaction store not configured")

	// ErrTokenNotFound is returned when no user owns a token hash.
	ErrTokenNotFound = errors.New("extension token not found")
)

// TokenStore resolves hashed extension tokens to their owner.
type TokenStore interface {
	LookupTokenUser(ctx context.Context, tokenHash string) (string, error)
}

// Store is the full backend contract.
type Store interface {
	ListInteractions(ctx context.Context, userID string, filter models.InteractionFilter) ([]models.InteractionRecord, error)
	TokenStore
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the backend selected by cfg.Backend, migrating the tables of
// the direct Postgres backend. The "none" backend yields Unconfigured.
func Open(cfg *config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.StoreBackendSupabase:
		client, err := NewSupabaseClient(cfg)
		if err != nil {
			return nil, err
		}
		return NewSupabaseStore(client, cfg.QueryTimeout), nil
	case config.StoreBackendPostgres:
		db, err := OpenPostgres(cfg)
		if err != nil {
			return nil, err
		}
		if err := Migrate(db); err != nil {
			return nil, err
		}
		return NewGormStore(db, backendPostgres, cfg.QueryTimeout), nil
	case "", config.StoreBackendNone:
		return Unconfigured{}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// normalizeStatus maps a stored status to a known value. Missing or unknown
// values count as watchlist.
func normalizeStatus(raw string) models.InteractionStatus {
	status := models.InteractionStatus(raw)
	if !status.Valid() {
		return models.StatusWatchlist
	}
	return status
}

// Unconfigured answers every call with ErrNotConfigured.
type Unconfigured struct{}

func (Unconfigured) ListInteractions(context.Context, string, models.InteractionFilter) ([]models.InteractionRecord, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) LookupTokenUser(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

func (Unconfigured) Ping(context.Context) error { return ErrNotConfigured }

func (Unconfigured) Close() error { return nil }
