// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

// Package reranking implements the rerankers used by the recommendation
// engine.
//
// # Personalized
//
// Personalized keeps the catalog order as the dominant prior and adds three
// small, explainable boosts:
//
//	base      = (total - idx) / total
//	genre     = min(1, sum(count(g)/maxCount for g in candidate ∩ topGenres) / topGenresLimit)
//	recent    = max Jaccard(candidate, recent watchlist genre set)
//	completed = max Jaccard(candidate, completed genre set)
//	score     = base + quiz*B_g*genre + quiz*B_r*recent + completed*B_c*completed
//
// where quiz and completed are the adaptive weights of the request and B_* the
// configured boost weights. Each boost above its threshold contributes a
// reason string. Items the user already tracks are removed, the rest sorted
// stably by score and truncated.
package reranking
