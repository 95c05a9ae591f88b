// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

/*
Package catalog talks to the TMDB movie catalog.

Client performs the HTTP calls (detail, recommendations, genre list) behind an
outbound rate limiter and returns normalized models.CatalogItem values.
BreakerClient wraps a Client with a sony/gobreaker circuit breaker.
GenreResolver caches the genre taxonomy in memory, optionally backed by a
shared Redis entry, and never fails: a fetch error caches an empty taxonomy for
a short fallback period.

Genres arrive in several shapes depending on the endpoint: detail payloads
carry [{"id":18,"name":"Drama"}], list payloads carry genre_ids, and some
proxies flatten genres to ["Drama"]. All of them are normalized at decode time
so the rest of the service only sees names.
*/
package catalog
