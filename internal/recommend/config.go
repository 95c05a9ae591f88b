// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package recommend

import "fmt"

// Config contains all tunables of the personalization pipeline.
type Config struct {
	// HistoryLimit caps the watchlist and completed rows analyzed per request.
	HistoryLimit int `json:"history_limit" koanf:"history_limit"`

	// RecentLimit is how many of the most recent watchlist items feed the
	// recent-similarity signal.
	RecentLimit int `json:"recent_limit" koanf:"recent_limit"`

	// TopGenresLimit is the size of the favorite-genre set.
	TopGenresLimit int `json:"top_genres_limit" koanf:"top_genres_limit"`

	// EnrichConcurrency caps in-flight detail fetches per history list.
	EnrichConcurrency int `json:"enrich_concurrency" koanf:"enrich_concurrency"`

	// ResultLimit truncates the personalized list.
	ResultLimit int `json:"result_limit" koanf:"result_limit"`

	Weighting  WeightingConfig `json:"weighting" koanf:"weighting"`
	Boosts     BoostConfig     `json:"boosts" koanf:"boosts"`
	Thresholds ThresholdConfig `json:"thresholds" koanf:"thresholds"`
}

// WeightingConfig shapes the decay from quiz signals to completed-history
// signals. At completedCount == K both weights are 0.5.
type WeightingConfig struct {
	K     float64 `json:"k" koanf:"k"`
	Floor float64 `json:"floor" koanf:"floor"`
}

// BoostConfig holds the multipliers applied to each personalization signal.
type BoostConfig struct {
	Genre     float64 `json:"genre" koanf:"genre"`
	Recent    float64 `json:"recent" koanf:"recent"`
	Completed float64 `json:"completed" koanf:"completed"`
}

// ThresholdConfig holds the minimum signal strengths that earn a reason.
type ThresholdConfig struct {
	Completed float64 `json:"completed" koanf:"completed"`
	Genre     float64 `json:"genre" koanf:"genre"`
	Recent    float64 `json:"recent" koanf:"recent"`
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		HistoryLimit:      25,
		RecentLimit:       5,
		TopGenresLimit:    5,
		EnrichConcurrency: 4,
		ResultLimit:       8,
		Weighting: WeightingConfig{
			K:     10,
			Floor: 0.30,
		},
		Boosts: BoostConfig{
			Genre:     0.15,
			Recent:    0.10,
			Completed: 0.25,
		},
		Thresholds: ThresholdConfig{
			Completed: 0.15,
			Genre:     0.05,
			Recent:    0.15,
		},
	}
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	}
	if c.RecentLimit < 0 || c.RecentLimit > c.HistoryLimit {
		return fmt.Errorf("recent_limit must be in [0, %d], got %d", c.HistoryLimit, c.RecentLimit)
	}
	if c.TopGenresLimit < 1 {
		return fmt.Errorf("top_genres_limit must be positive, got %d", c.TopGenresLimit)
	}
	if c.EnrichConcurrency < 1 {
		return fmt.Errorf("enrich_concurrency must be positive, got %d", c.EnrichConcurrency)
	}
	if c.ResultLimit < 1 {
		return fmt.Errorf("result_limit must be positive, got %d", c.ResultLimit)
	}

	if c.Weighting.K <= 0 {
		return fmt.Errorf("weighting.k must be positive, got %f", c.Weighting.K)
	}
	if c.Weighting.Floor < 0 || c.Weighting.Floor > 1 {
		return fmt.Errorf("weighting.floor must be in [0, 1], got %f", c.Weighting.Floor)
	}

	for name, v := range map[string]float64{
		"boosts.genre":         c.Boosts.Genre,
		"boosts.recent":        c.Boosts.Recent,
		"boosts.completed":     c.Boosts.Completed,
		"thresholds.completed": c.Thresholds.Completed,
		"thresholds.genre":     c.Thresholds.Genre,
		"thresholds.recent":    c.Thresholds.Recent,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", name, v)
		}
	}
	return nil
}
