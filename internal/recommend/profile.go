// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/reconhq/recon/internal/metrics"
	"github.com/reconhq/recon/internal/models"
	"github.com/reconhq/recon/internal/parallel"
)

// ProfileBuilder turns interaction history into a TasteProfile.
type ProfileBuilder struct {
	details DetailFetcher
	cfg     Config
	logger  zerolog.Logger
}

// NewProfileBuilder creates a builder that enriches history rows through
// details.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewProfileBuilder(details DetailFetcher, cfg Config, logger zerolog.Logger) *ProfileBuilder {
	return &ProfileBuilder{
		details: details,
		cfg:     cfg,
		logger:  logger,
	}
}

// Build enriches watchlist and completed rows (most recent first) with full
// catalog detail and derives the profile. A row whose detail cannot be fetched
// is kept with its stored title and no genres, so counts stay proportionate to
// the history size. Build only fails when ctx is done.
func (b *ProfileBuilder) Build(ctx context.Context, watchlist, completed []models.InteractionRecord, taxonomy models.GenreTaxonomy) (*TasteProfile, error) {
	watchlist = headRecords(watchlist, b.cfg.HistoryLimit)
	completed = headRecords(completed, b.cfg.HistoryLimit)

	watchDetails, err := b.enrich(ctx, watchlist, taxonomy)
	if err != nil {
		return nil, fmt.Errorf("enrich watchlist: %w", err)
	}
	completedDetails, err := b.enrich(ctx, completed, taxonomy)
	if err != nil {
		return nil, fmt.Errorf("enrich completed: %w", err)
	}

	counts, order := countGenres(watchDetails, completedDetails)
	top := rankGenres(counts, order, b.cfg.TopGenresLimit)

	maxCount := 1
	if len(top) > 0 {
		maxCount = top[0].Count
	}

	recent := watchDetails[:min(b.cfg.RecentLimit, len(watchDetails))]
	recentSets := make([]GenreSet, len(recent))
	for i, item := range recent {
		recentSets[i] = NewGenreSet(item.Genres)
	}
	completedSets := make([]GenreSet, len(completedDetails))
	for i, item := range completedDetails {
		completedSets[i] = NewGenreSet(item.Genres)
	}

	return &TasteProfile{
		GenreCounts:    counts,
		TopGenres:      top,
		MaxGenreCount:  maxCount,
		RecentSets:     recentSets,
		CompletedSets:  completedSets,
		WatchlistCount: len(watchlist),
		CompletedCount: len(completed),
	}, nil
}

func (b *ProfileBuilder) enrich(ctx context.Context, rows []models.InteractionRecord, taxonomy models.GenreTaxonomy) ([]models.CatalogItem, error) {
	return parallel.MapBounded(ctx, rows, b.cfg.EnrichConcurrency, func(ctx context.Context, row models.InteractionRecord) (models.CatalogItem, error) {
		item, err := b.details.GetDetail(ctx, row.ItemID)
		if err != nil {
			metrics.RecordEnrichmentDegraded(string(row.Status))
			b.logger.Warn().
				Err(err).
				Int("item_id", row.ItemID).
				Str("status", string(row.Status)).
				Msg("history enrichment failed, using stored row")
			return models.CatalogItem{ID: row.ItemID, Title: row.Title, Genres: []string{}}, nil
		}
		return taxonomy.Annotate(item), nil
	})
}

func headRecords(rows []models.InteractionRecord, limit int) []models.InteractionRecord {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// countGenres counts genre names across both detail lists, watchlist first,
// and records the order in which each genre was first seen.
func countGenres(lists ...[]models.CatalogItem) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, items := range lists {
		for _, item := range items {
			for _, g := range uniqueGenres(item.Genres) {
				if _, seen := counts[g]; !seen {
					order = append(order, g)
				}
				counts[g]++
			}
		}
	}
	return counts, order
}

// uniqueGenres returns each trimmed, non-empty genre once, in input order.
func uniqueGenres(genres []string) []string {
	seen := make(GenreSet, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g == "" || seen.Has(g) {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// rankGenres returns the limit highest counts. The sort is stable over
// first-seen order, so ties keep the genre that appeared first.
func rankGenres(counts map[string]int, order []string, limit int) []GenreCount {
	ranked := make([]GenreCount, len(order))
	for i, g := range order {
		ranked[i] = GenreCount{Genre: g, Count: counts[g]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
