// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

// Package recommend personalizes catalog recommendations for a seed movie.
//
// # Pipeline
//
// Engine.Recommend runs a short-circuit pipeline with three exits:
//
//  1. Seed detail, catalog candidates and the genre taxonomy are fetched
//     concurrently. A detail or candidate failure fails the request.
//  2. Candidates are annotated with genre names.
//  3. Anonymous callers get the annotated list (OutcomeUnpersonalized).
//  4. The caller's history is read from the interaction store. A store failure
//     yields the annotated list plus a warning (OutcomeDegraded).
//  5. An empty history yields the annotated list (OutcomeUnpersonalized).
//  6. Otherwise a TasteProfile is built, adaptive weights are computed and the
//     registered Reranker produces the final list (OutcomePersonalized).
//
// # Scoring
//
// Every constant that shapes the final order (history limits, weighting decay,
// boost weights, reason thresholds, result size) lives in Config so it can be
// tuned without code changes. DefaultConfig reproduces the production values.
//
// The package holds no state between requests; the genre taxonomy cache is
// owned by the caller and injected as a TaxonomyResolver.
package recommend
