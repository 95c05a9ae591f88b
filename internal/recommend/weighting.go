// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package recommend

import "math"

// ComputeWeights returns the adaptive weights for a user who has completed
// completedCount items:
//
//	quiz      = max(Floor, 1 - n/(n+K))
//	completed = 1 - quiz
//
// The quiz weight starts at 1, reaches 0.5 at n == K and never drops below
// Floor.
func ComputeWeights(completedCount int, cfg WeightingConfig) Weights {
	n := float64(max(completedCount, 0))
	raw := 1 - n/(n+cfg.K)
	quiz := math.Max(cfg.Floor, raw)
	return Weights{
		Quiz:      quiz,
		Completed: 1 - quiz,
	}
}

// Rounded returns the weights rounded to two decimals for display.
func (w Weights) Rounded() Weights {
	return Weights{
		Quiz:      round2(w.Quiz),
		Completed: round2(w.Completed),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
