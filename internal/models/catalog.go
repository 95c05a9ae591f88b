// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

// Package models defines the data types shared by the catalog client, the
// interaction stores, the recommendation engine and the HTTP layer.
package models

// CatalogItem is a movie as returned by the external catalog after
// normalization. ID is always a positive integer.
type CatalogItem struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview,omitempty"`
	PosterPath  string   `json:"poster_path,omitempty"`
	Backdrop    string   `json:"backdrop_path,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	VoteAverage float64  `json:"vote_average"`
	Genres      []string `json:"genres"`
	GenreIDs    []int    `json:"genre_ids,omitempty"`

	// Reason is an optional upstream justification, kept ahead of any
	// personalization reasons.
	Reason string `json:"reason,omitempty"`
}

// GenreTaxonomy maps catalog genre ids to display names.
type GenreTaxonomy map[int]string

// RankedCandidate is a CatalogItem scored for one user.
type RankedCandidate struct {
	CatalogItem
	SimilarityScore float64 `json:"similarity_score,omitempty"`
}

// SeedSummary is the original_movie block of a recommendation response.
type SeedSummary struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Genres []string `json:"genres"`
}

// Annotate fills item.Genres from GenreIDs when the payload carried no
// explicit genre names. Explicit names always win; unknown ids are skipped.
func (t GenreTaxonomy) Annotate(item CatalogItem) CatalogItem {
	if len(item.Genres) > 0 {
		return item
	}
	names := make([]string, 0, len(item.GenreIDs))
	for _, id := range item.GenreIDs {
		if name, ok := t[id]; ok && name != "" {
			names = append(names, name)
		}
	}
	item.Genres = names
	return item
}

// AnnotateAll applies Annotate to every item, returning a new slice.
func (t GenreTaxonomy) AnnotateAll(items []CatalogItem) []CatalogItem {
	out := make([]CatalogItem, len(items))
	for i, item := range items {
		out[i] = t.Annotate(item)
	}
	return out
}
