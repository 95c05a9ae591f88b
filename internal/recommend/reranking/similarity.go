// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package reranking

import "github.com/reconhq/recon/internal/recommend"

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty.
func Jaccard(a, b recommend.GenreSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	intersection := 0
	for g := range a {
		if b.Has(g) {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// maxJaccard returns the highest Jaccard similarity between set and any of
// others, or 0 when others is empty.
func maxJaccard(set recommend.GenreSet, others []recommend.GenreSet) float64 {
	best := 0.0
	for _, o := range others {
		if sim := Jaccard(set, o); sim > best {
			best = sim
		}
	}
	return best
}
