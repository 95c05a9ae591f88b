// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package models

import "time"

// InteractionStatus is the tracking state of a watchlist row.
type InteractionStatus string

const (
	StatusWatchlist InteractionStatus = "watchlist"
	StatusCompleted InteractionStatus = "completed"
)

// Valid reports whether s is a known status.
func (s InteractionStatus) Valid() bool {
	return s == StatusWatchlist || s == StatusCompleted
}

// InteractionRecord is one tracked item for a user. The store guarantees at
// most one record per (user, item).
type InteractionRecord struct {
	ItemID  int               `json:"movie_id"`
	Title   string            `json:"movie_title,omitempty"`
	Status  InteractionStatus `json:"status"`
	AddedAt time.Time         `json:"created_at"`
}

// InteractionFilter narrows a history query. An empty Status matches every
// status; a zero Limit means no limit.
type InteractionFilter struct {
	Status InteractionStatus
	Limit  int
}
