// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"github.com/reconhq/recon/internal/config"
	"github.com/reconhq/recon/internal/logging"
	"github.com/reconhq/recon/internal/metrics"
	"github.com/reconhq/recon/internal/models"
)

const backendSupabase = "supabase"

const (
	historyColumns   = "movie_id, movie_title, status, created_at"
	exclusionColumns = "movie_id, status"
)

// NewSupabaseClient builds a service-role client from the store config.
func NewSupabaseClient(cfg *config.StoreConfig) (*supabase.Client, error) {
	if !cfg.HasSupabase() {
		return nil, ErrNotConfigured
	}
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return client, nil
}

// SupabaseStore reads history through the Supabase REST API.
type SupabaseStore struct {
	client  *supabase.Client
	timeout time.Duration
}

// NewSupabaseStore wraps client. A positive timeout bounds each query.
func NewSupabaseStore(client *supabase.Client, timeout time.Duration) *SupabaseStore {
	return &SupabaseStore{client: client, timeout: timeout}
}

type supabaseWatchlistRow struct {
	MovieID    int     `json:"movie_id"`
	MovieTitle *string `json:"movie_title"`
	Status     *string `json:"status"`
	CreatedAt  string  `json:"created_at"`
}

type supabaseTokenRow struct {
	UserID string `json:"user_id"`
}

// ListInteractions returns the user's tracked items, most recent first.
// With an empty filter status only ids and statuses are selected.
func (s *SupabaseStore) ListInteractions(ctx context.Context, userID string, filter models.InteractionFilter) ([]models.InteractionRecord, error) {
	columns := historyColumns
	if filter.Status == "" {
		columns = exclusionColumns
	}

	var rows []supabaseWatchlistRow
	err := s.run(ctx, tableWatchlist, func() error {
		query := s.client.From(tableWatchlist).
			Select(columns, "", false).
			Eq("user_id", userID)
		if filter.Status != "" {
			query = query.Eq("status", string(filter.Status))
		}
		query = query.Order("created_at", &postgrest.OrderOpts{Ascending: false})
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit, "")
		}
		_, err := query.ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}

	records := make([]models.InteractionRecord, 0, len(rows))
	for _, row := range rows {
		if row.MovieID <= 0 {
			continue
		}
		rec := models.InteractionRecord{ItemID: row.MovieID, Status: models.StatusWatchlist}
		if row.Status != nil {
			rec.Status = normalizeStatus(*row.Status)
		}
		if row.MovieTitle != nil {
			rec.Title = *row.MovieTitle
		}
		if row.CreatedAt != "" {
			if t, perr := time.Parse(time.RFC3339Nano, row.CreatedAt); perr == nil {
				rec.AddedAt = t
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// LookupTokenUser returns the owner of a hashed extension token.
func (s *SupabaseStore) LookupTokenUser(ctx context.Context, tokenHash string) (string, error) {
	var rows []supabaseTokenRow
	err := s.run(ctx, tableExtensionTokens, func() error {
		_, err := s.client.From(tableExtensionTokens).
			Select("user_id", "", false).
			Eq("token_hash", tokenHash).
			Limit(1, "").
			ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("lookup extension token: %w", err)
	}
	if len(rows) == 0 || rows[0].UserID == "" {
		return "", ErrTokenNotFound
	}
	return rows[0].UserID, nil
}

// Ping issues a one-row read against the watchlist table.
func (s *SupabaseStore) Ping(ctx context.Context) error {
	var rows []supabaseWatchlistRow
	return s.run(ctx, tableWatchlist, func() error {
		_, err := s.client.From(tableWatchlist).
			Select("movie_id", "", false).
			Limit(1, "").
			ExecuteTo(&rows)
		return err
	})
}

// Close is a no-op; the REST client holds no pooled state.
func (s *SupabaseStore) Close() error { return nil }

// run executes a blocking PostgREST call, returning early when ctx ends.
// The REST client has no context support, so an abandoned call finishes in
// the background and its result is discarded.
func (s *SupabaseStore) run(ctx context.Context, table string, call func() error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- call()
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	metrics.RecordStoreQuery(backendSupabase, table, time.Since(start), err)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("backend", backendSupabase).
			Str("table", table).
			Msg("Store query failed")
	}
	return err
}
