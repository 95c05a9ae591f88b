// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package recommend

import (
	"context"
	"strings"

	"github.com/reconhq/recon/internal/models"
)

// WarningPersonalizationUnavailable is returned with the base list when the
// caller's history could not be read.
const WarningPersonalizationUnavailable = "Personalization unavailable"

// GenreSet is a set of trimmed, non-empty genre names. Names compare
// case-sensitively.
type GenreSet map[string]struct{}

// NewGenreSet builds a set from genre names, trimming whitespace and skipping
// blanks.
func NewGenreSet(genres []string) GenreSet {
	set := make(GenreSet, len(genres))
	for _, g := range genres {
		if g = strings.TrimSpace(g); g != "" {
			set[g] = struct{}{}
		}
	}
	return set
}

// Has reports whether the set contains genre.
func (s GenreSet) Has(genre string) bool {
	_, ok := s[genre]
	return ok
}

// GenreCount is one entry of a ranked genre histogram.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// TasteProfile summarizes a user's genre affinities for one request.
type TasteProfile struct {
	// GenreCounts counts every genre across watchlist and completed details.
	GenreCounts map[string]int

	// TopGenres holds the highest counts, ties in first-seen order.
	TopGenres []GenreCount

	// MaxGenreCount is the count of the top genre, or 1 with no genres.
	MaxGenreCount int

	// RecentSets are the genre sets of the most recent watchlist items.
	RecentSets []GenreSet

	// CompletedSets are the genre sets of the analyzed completed items.
	CompletedSets []GenreSet

	// WatchlistCount and CompletedCount are the history rows analyzed.
	WatchlistCount int
	CompletedCount int
}

// Empty reports whether the profile was built from no history at all.
func (p *TasteProfile) Empty() bool {
	return p == nil || (p.WatchlistCount == 0 && p.CompletedCount == 0)
}

// TopGenreNames returns the names of TopGenres in rank order.
func (p *TasteProfile) TopGenreNames() []string {
	if p == nil {
		return []string{}
	}
	names := make([]string, len(p.TopGenres))
	for i, g := range p.TopGenres {
		names[i] = g.Genre
	}
	return names
}

// Weights splits personalization influence between quiz/watchlist signals and
// completed-history signals. Quiz + Completed == 1.
type Weights struct {
	Quiz      float64 `json:"quiz_weight"`
	Completed float64 `json:"completed_weight"`
}

// RerankRequest is the input of a Reranker.
type RerankRequest struct {
	// Candidates are in catalog order and already genre-annotated.
	Candidates []models.CatalogItem

	// Exclude holds ids the user already tracks.
	Exclude map[int]struct{}

	Profile *TasteProfile
	Weights Weights
}

// Reranker reorders catalog candidates for one user.
type Reranker interface {
	// Name returns the reranker identifier (e.g., "personalized").
	Name() string

	// Rerank returns the final list. Implementations must leave the order
	// untouched when req.Profile is empty.
	Rerank(ctx context.Context, req RerankRequest) []models.RankedCandidate
}

// Catalog is the subset of the movie catalog the engine needs.
type Catalog interface {
	GetDetail(ctx context.Context, id int) (models.CatalogItem, error)
	GetRecommendations(ctx context.Context, id int) ([]models.CatalogItem, error)
}

// DetailFetcher fetches one movie's full detail.
type DetailFetcher interface {
	GetDetail(ctx context.Context, id int) (models.CatalogItem, error)
}

// TaxonomyResolver returns the current genre taxonomy. Implementations fail
// soft and return an empty taxonomy rather than an error.
type TaxonomyResolver interface {
	Resolve(ctx context.Context) models.GenreTaxonomy
}

// InteractionStore reads a user's tracked items, most recent first.
type InteractionStore interface {
	ListInteractions(ctx context.Context, userID string, filter models.InteractionFilter) ([]models.InteractionRecord, error)
}

// Outcome labels which pipeline exit produced a Result.
type Outcome int

const (
	// OutcomeUnpersonalized is the annotated catalog list (anonymous caller
	// or empty history).
	OutcomeUnpersonalized Outcome = iota
	// OutcomeDegraded is the annotated catalog list with a warning.
	OutcomeDegraded
	// OutcomePersonalized is the re-ranked list with a summary.
	OutcomePersonalized
)

// String returns the metrics label of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeUnpersonalized:
		return "unpersonalized"
	case OutcomeDegraded:
		return "degraded"
	case OutcomePersonalized:
		return "personalized"
	default:
		return "unknown"
	}
}

// Request identifies one recommendation call.
type Request struct {
	SeedID int

	// UserID is empty for anonymous callers.
	UserID string
}

// Result is the engine's answer for one Request.
type Result struct {
	Outcome Outcome
	Seed    models.CatalogItem
	Results []models.RankedCandidate
	Warning string
	Summary *models.PersonalizationSummary
}

// Response converts the result to its wire shape.
func (r *Result) Response() models.RecommendationResponse {
	results := r.Results
	if results == nil {
		results = []models.RankedCandidate{}
	}
	genres := r.Seed.Genres
	if genres == nil {
		genres = []string{}
	}
	return models.RecommendationResponse{
		Results: results,
		OriginalMovie: &models.SeedSummary{
			ID:     r.Seed.ID,
			Title:  r.Seed.Title,
			Genres: genres,
		},
		Warning:         r.Warning,
		Personalization: r.Summary,
	}
}
