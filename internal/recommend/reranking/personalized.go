// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package reranking

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/reconhq/recon/internal/models"
	"github.com/reconhq/recon/internal/recommend"
)

// Reason strings, in the order they are appended.
const (
	ReasonCompleted = "similar to completed items"
	ReasonGenres    = "matches favorite genres"
	ReasonRecent    = "similar to recently added items"
)

// Personalized scores catalog candidates against a user's taste profile.
type Personalized struct {
	cfg recommend.Config
}

// NewPersonalized creates the personalized reranker.
func NewPersonalized(cfg recommend.Config) *Personalized {
	return &Personalized{cfg: cfg}
}

// Name returns the reranker identifier.
func (p *Personalized) Name() string {
	return "personalized"
}

// breakdown holds the per-signal scores of one candidate.
type breakdown struct {
	base      float64
	genre     float64
	recent    float64
	completed float64
	final     float64
}

type scored struct {
	item  models.CatalogItem
	parts breakdown
}

// Rerank removes excluded items, scores the rest, sorts them by score (stable)
// and keeps the configured number of results. An empty profile returns the
// candidates unchanged.
func (p *Personalized) Rerank(_ context.Context, req recommend.RerankRequest) []models.RankedCandidate {
	if req.Profile.Empty() {
		out := make([]models.RankedCandidate, len(req.Candidates))
		for i, item := range req.Candidates {
			out[i] = models.RankedCandidate{CatalogItem: item}
		}
		return out
	}

	items := p.score(req)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].parts.final > items[j].parts.final
	})
	if len(items) > p.cfg.ResultLimit {
		items = items[:p.cfg.ResultLimit]
	}

	out := make([]models.RankedCandidate, len(items))
	for i, s := range items {
		item := s.item
		item.Reason = p.reason(item.Reason, s.parts)
		out[i] = models.RankedCandidate{
			CatalogItem:     item,
			SimilarityScore: s.parts.final,
		}
	}
	return out
}

// score computes the breakdown of every non-excluded candidate, preserving
// catalog order. idx and total refer to the unfiltered candidate list.
func (p *Personalized) score(req recommend.RerankRequest) []scored {
	total := float64(len(req.Candidates))
	profile := req.Profile
	top := make(map[string]struct{}, len(profile.TopGenres))
	for _, g := range profile.TopGenres {
		top[g.Genre] = struct{}{}
	}
	maxCount := float64(max(profile.MaxGenreCount, 1))

	out := make([]scored, 0, len(req.Candidates))
	for idx, item := range req.Candidates {
		if _, excluded := req.Exclude[item.ID]; excluded {
			continue
		}

		genres := recommend.NewGenreSet(item.Genres)

		var genreBoost float64
		for g := range genres {
			if _, ok := top[g]; ok {
				genreBoost += float64(profile.GenreCounts[g]) / maxCount
			}
		}
		genreBoost = math.Min(1, genreBoost/float64(max(p.cfg.TopGenresLimit, 1)))

		parts := breakdown{
			base:      (total - float64(idx)) / total,
			genre:     genreBoost,
			recent:    maxJaccard(genres, profile.RecentSets),
			completed: maxJaccard(genres, profile.CompletedSets),
		}
		parts.final = parts.base +
			req.Weights.Quiz*p.cfg.Boosts.Genre*parts.genre +
			req.Weights.Quiz*p.cfg.Boosts.Recent*parts.recent +
			req.Weights.Completed*p.cfg.Boosts.Completed*parts.completed

		out = append(out, scored{item: item, parts: parts})
	}
	return out
}

// reason appends the earned reason strings to any upstream reason.
func (p *Personalized) reason(existing string, parts breakdown) string {
	bits := make([]string, 0, 4)
	if existing != "" {
		bits = append(bits, existing)
	}
	if parts.completed > p.cfg.Thresholds.Completed {
		bits = append(bits, ReasonCompleted)
	}
	if parts.genre > p.cfg.Thresholds.Genre {
		bits = append(bits, ReasonGenres)
	}
	if parts.recent > p.cfg.Thresholds.Recent {
		bits = append(bits, ReasonRecent)
	}
	return strings.Join(bits, "; ")
}
