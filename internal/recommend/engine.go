// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/reconhq/recon/internal/logging"
	"github.com/reconhq/recon/internal/metrics"
	"github.com/reconhq/recon/internal/models"
)

// ErrNoReranker is returned by NewEngine when no reranker is supplied.
var ErrNoReranker = errors.New("recommend: reranker is required")

// SeedFetchError reports which catalog call failed for the seed movie.
type SeedFetchError struct {
	Op  string
	Err error
}

func (e *SeedFetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SeedFetchError) Unwrap() error {
	return e.Err
}

// Engine orchestrates one personalized recommendation request. It is safe for
// concurrent use and keeps no per-request state.
type Engine struct {
	config   Config
	logger   zerolog.Logger
	catalog  Catalog
	genres   TaxonomyResolver
	store    InteractionStore
	reranker Reranker
	profiles *ProfileBuilder
}

// NewEngine wires the engine's collaborators. store may be nil, in which case
// every signed-in request degrades with a warning.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, catalog Catalog, genres TaxonomyResolver, store InteractionStore, reranker Reranker, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if catalog == nil || genres == nil {
		return nil, errors.New("recommend: catalog and taxonomy resolver are required")
	}
	if reranker == nil {
		return nil, ErrNoReranker
	}

	logger = logger.With().Str("component", "recommend").Logger()
	logger.Info().Str("reranker", reranker.Name()).Bool("store", store != nil).Msg("recommendation engine ready")

	return &Engine{
		config:   cfg,
		logger:   logger,
		catalog:  catalog,
		genres:   genres,
		store:    store,
		reranker: reranker,
		profiles: NewProfileBuilder(catalog, cfg, logger),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Recommend runs the personalization pipeline for req. The only error
// returns are seed fetch failures (wrapped in *SeedFetchError) and context
// cancellation; every personalization problem degrades instead.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	logger := logging.Ctx(ctx).With().
		Str("component", "recommend").
		Int("seed_id", req.SeedID).
		Bool("signed_in", req.UserID != "").
		Logger()

	seed, candidates, taxonomy, err := e.fetchSeed(ctx, req.SeedID)
	if err != nil {
		metrics.RecordRecommendation("error", time.Since(start))
		return nil, err
	}

	annotated := taxonomy.AnnotateAll(candidates)
	seed = taxonomy.Annotate(seed)

	result, err := e.personalize(ctx, req, seed, annotated, taxonomy, logger)
	if err != nil {
		metrics.RecordRecommendation("error", time.Since(start))
		return nil, err
	}

	metrics.RecordRecommendation(result.Outcome.String(), time.Since(start))
	logger.Debug().
		Str("outcome", result.Outcome.String()).
		Int("candidates", len(candidates)).
		Int("returned", len(result.Results)).
		Dur("latency", time.Since(start)).
		Msg("recommendation complete")

	return result, nil
}

// fetchSeed loads the seed detail, its catalog recommendations and the genre
// taxonomy concurrently.
func (e *Engine) fetchSeed(ctx context.Context, seedID int) (models.CatalogItem, []models.CatalogItem, models.GenreTaxonomy, error) {
	var (
		seed       models.CatalogItem
		candidates []models.CatalogItem
		taxonomy   models.GenreTaxonomy
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		item, err := e.catalog.GetDetail(gctx, seedID)
		if err != nil {
			return &SeedFetchError{Op: "get detail", Err: err}
		}
		seed = item
		return nil
	})
	g.Go(func() error {
		items, err := e.catalog.GetRecommendations(gctx, seedID)
		if err != nil {
			return &SeedFetchError{Op: "get recommendations", Err: err}
		}
		candidates = items
		return nil
	})
	g.Go(func() error {
		// Not gctx: a seed failure must not cancel the fetch and leave the
		// cache holding the short-lived empty fallback.
		taxonomy = e.genres.Resolve(ctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.CatalogItem{}, nil, nil, err
	}
	return seed, candidates, taxonomy, nil
}

// history is the caller's tracked items for one request.
type history struct {
	watchlist      []models.InteractionRecord
	completed      []models.InteractionRecord
	exclude        map[int]struct{}
	completedTotal int
}

func (e *Engine) personalize(ctx context.Context, req Request, seed models.CatalogItem, candidates []models.CatalogItem, taxonomy models.GenreTaxonomy, logger zerolog.Logger) (*Result, error) {
	base := &Result{
		Outcome: OutcomeUnpersonalized,
		Seed:    seed,
		Results: unranked(candidates),
	}

	if req.UserID == "" {
		return base, nil
	}

	hist, err := e.loadHistory(ctx, req.UserID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn().Err(err).Msg("interaction store unavailable, serving base recommendations")
		base.Outcome = OutcomeDegraded
		base.Warning = WarningPersonalizationUnavailable
		return base, nil
	}

	if len(hist.watchlist) == 0 && len(hist.completed) == 0 {
		return base, nil
	}

	profile, err := e.profiles.Build(ctx, hist.watchlist, hist.completed, taxonomy)
	if err != nil {
		return nil, err
	}

	weights := ComputeWeights(hist.completedTotal, e.config.Weighting)
	ranked := e.reranker.Rerank(ctx, RerankRequest{
		Candidates: candidates,
		Exclude:    hist.exclude,
		Profile:    profile,
		Weights:    weights,
	})

	display := weights.Rounded()
	return &Result{
		Outcome: OutcomePersonalized,
		Seed:    seed,
		Results: ranked,
		Summary: &models.PersonalizationSummary{
			TopGenres:       profile.TopGenreNames(),
			RecentCount:     len(profile.RecentSets),
			CompletedCount:  hist.completedTotal,
			QuizWeight:      display.Quiz,
			CompletedWeight: display.Completed,
		},
	}, nil
}

// loadHistory reads the recent watchlist, the recent completed items and the
// full tracked set (for exclusion and the completed total) concurrently.
func (e *Engine) loadHistory(ctx context.Context, userID string) (*history, error) {
	if e.store == nil {
		return nil, errors.New("interaction store not configured")
	}

	var watchlist, completed, tracked []models.InteractionRecord
	limit := e.config.HistoryLimit

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := e.store.ListInteractions(gctx, userID, models.InteractionFilter{Status: models.StatusWatchlist, Limit: limit})
		if err != nil {
			return fmt.Errorf("list watchlist: %w", err)
		}
		watchlist = rows
		return nil
	})
	g.Go(func() error {
		rows, err := e.store.ListInteractions(gctx, userID, models.InteractionFilter{Status: models.StatusCompleted, Limit: limit})
		if err != nil {
			return fmt.Errorf("list completed: %w", err)
		}
		completed = rows
		return nil
	})
	g.Go(func() error {
		rows, err := e.store.ListInteractions(gctx, userID, models.InteractionFilter{})
		if err != nil {
			return fmt.Errorf("list tracked: %w", err)
		}
		tracked = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := &history{
		watchlist: watchlist,
		completed: completed,
		exclude:   make(map[int]struct{}, len(tracked)+len(watchlist)+len(completed)),
	}
	for _, rows := range [][]models.InteractionRecord{tracked, watchlist, completed} {
		for _, row := range rows {
			h.exclude[row.ItemID] = struct{}{}
		}
	}
	for _, row := range tracked {
		if row.Status == models.StatusCompleted {
			h.completedTotal++
		}
	}
	h.completedTotal = max(h.completedTotal, len(completed))
	return h, nil
}

// unranked wraps catalog items without scores, preserving order.
func unranked(items []models.CatalogItem) []models.RankedCandidate {
	out := make([]models.RankedCandidate, len(items))
	for i, item := range items {
		out[i] = models.RankedCandidate{CatalogItem: item}
	}
	return out
}
