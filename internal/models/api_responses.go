// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package models

import "time"

// APIResponse is the envelope used for errors and auxiliary endpoints.
//
//	{"status":"error","error":{"code":"INVALID_ID","message":"Invalid movie id"},"metadata":{...}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response bookkeeping.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PersonalizationSummary describes how a result list was personalized.
// Weights are rounded to two decimals.
type PersonalizationSummary struct {
	TopGenres       []string `json:"top_genres"`
	RecentCount     int      `json:"recent_count"`
	CompletedCount  int      `json:"completed_count"`
	QuizWeight      float64  `json:"quiz_weight"`
	CompletedWeight float64  `json:"completed_weight"`
}

// RecommendationResponse is the body of GET /recommendations/{seedItemID}.
type RecommendationResponse struct {
	Results         []RankedCandidate       `json:"results"`
	OriginalMovie   *SeedSummary            `json:"original_movie,omitempty"`
	Warning         string                  `json:"warning,omitempty"`
	Personalization *PersonalizationSummary `json:"personalization,omitempty"`
}

// HealthStatus is the body of the readiness endpoint.
type HealthStatus struct {
	Status          string `json:"status"`
	CatalogReady    bool   `json:"catalog_configured"`
	StoreReady      bool   `json:"store_configured"`
	IdentityEnabled bool   `json:"identity_enabled"`
}
