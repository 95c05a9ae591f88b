// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package catalog

import (
	"bytes"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/reconhq/recon/internal/models"
)

// Image sizes used for resolved artwork URLs.
const (
	posterSize   = "w500"
	backdropSize = "w1280"
)

// rawPage is a paginated list payload.
type rawPage struct {
	Page    int        `json:"page"`
	Results []rawMovie `json:"results"`
}

type rawGenreList struct {
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// rawMovie is a movie as TMDB (or a proxy in front of it) sends it.
type rawMovie struct {
	ID            flexID    `json:"id"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"original_title"`
	Overview      string    `json:"overview"`
	PosterPath    string    `json:"poster_path"`
	BackdropPath  string    `json:"backdrop_path"`
	ReleaseDate   string    `json:"release_date"`
	VoteAverage   float64   `json:"vote_average"`
	Genres        rawGenres `json:"genres"`
	GenreIDs      []int     `json:"genre_ids"`
	Reason        string    `json:"reason"`
}

// normalize converts the payload to a CatalogItem. It reports false when
// the row has no positive integer id.
func (m *rawMovie) normalize(images imageResolver) (models.CatalogItem, bool) {
	if m.ID <= 0 {
		return models.CatalogItem{}, false
	}

	title := m.Title
	if title == "" {
		title = m.OriginalTitle
	}

	ids := make([]int, 0, len(m.GenreIDs)+len(m.Genres.IDs))
	for _, source := range [][]int{m.GenreIDs, m.Genres.IDs} {
		for _, id := range source {
			if id > 0 && !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}

	return models.CatalogItem{
		ID:          int(m.ID),
		Title:       title,
		Overview:    m.Overview,
		PosterPath:  images.resolve(posterSize, m.PosterPath),
		Backdrop:    images.resolve(backdropSize, m.BackdropPath),
		ReleaseDate: m.ReleaseDate,
		VoteAverage: m.VoteAverage,
		Genres:      m.Genres.Names,
		GenreIDs:    ids,
		Reason:      strings.TrimSpace(m.Reason),
	}, true
}

// flexID accepts a JSON number or a numeric string. Anything else decodes to
// zero, which normalize rejects.
type flexID int64

func (f *flexID) UnmarshalJSON(data []byte) error {
	*f = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		// Fractional or malformed ids are invalid rather than fatal.
		return nil
	}
	*f = flexID(n)
	return nil
}

// rawGenres decodes the three genre shapes found in catalog payloads:
// objects ({"id":18,"name":"Drama"}), plain names ("Drama") and bare ids
// (18). Names are trimmed, blanks skipped and duplicates dropped in first-seen
// order.
type rawGenres struct {
	Names []string
	IDs   []int
}

func (g *rawGenres) UnmarshalJSON(data []byte) error {
	g.Names = []string{}
	g.IDs = nil

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		// null or a non-array value carries no genres.
		return nil
	}

	for _, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 {
			continue
		}
		switch elem[0] {
		case '{':
			var obj struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			}
			if json.Unmarshal(elem, &obj) != nil {
				continue
			}
			if !g.addName(obj.Name) && obj.ID > 0 {
				g.IDs = append(g.IDs, obj.ID)
			}
		case '"':
			var name string
			if json.Unmarshal(elem, &name) == nil {
				g.addName(name)
			}
		default:
			var id int
			if json.Unmarshal(elem, &id) == nil && id > 0 {
				g.IDs = append(g.IDs, id)
			}
		}
	}
	return nil
}

// addName appends a trimmed, unseen, non-blank name and reports whether the
// element carried a usable name.
func (g *rawGenres) addName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if slices.Contains(g.Names, name) {
		return true
	}
	g.Names = append(g.Names, name)
	return true
}

// imageResolver turns relative artwork paths into absolute URLs.
type imageResolver struct {
	base string
}

// resolve returns "" for an empty path and passes absolute URLs through.
func (r imageResolver) resolve(size, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if r.base == "" {
		return path
	}
	return r.base + "/" + size + "/" + strings.TrimPrefix(path, "/")
}
