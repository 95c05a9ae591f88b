// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/reconhq/recon/internal/config"
	"github.com/reconhq/recon/internal/logging"
	"github.com/reconhq/recon/internal/metrics"
	"github.com/reconhq/recon/internal/models"
)

// ErrMissingAPIKey is returned by every call when no TMDB key is configured.
var ErrMissingAPIKey = errors.New("TMDB_API_KEY not set")

// maxErrorBodySize caps how much of an error response is read.
const maxErrorBodySize = 4096

// Operation names used for metrics and error context.
const (
	OpGetDetail          = "get_detail"
	OpGetRecommendations = "get_recommendations"
	OpGetGenres          = "get_genres"
)

// StatusError is a non-2xx answer from TMDB.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// Client is a TMDB v3 API client. It is safe for concurrent use.
type Client struct {
	baseURL   string
	apiKey    string
	language  string
	images    imageResolver
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewClient creates a client from the catalog configuration. A zero
// RateLimit disables the outbound limiter.
func NewClient(cfg *config.CatalogConfig) *Client {
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}

	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:   strings.TrimSpace(cfg.APIKey),
		language: cfg.Language,
		images:   imageResolver{base: strings.TrimSuffix(cfg.ImageBaseURL, "/")},
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:   limiter,
		userAgent: "recon/1.0",
	}
}

// HasAPIKey reports whether calls can reach TMDB at all.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// GetDetail fetches one movie's full detail.
func (c *Client) GetDetail(ctx context.Context, id int) (models.CatalogItem, error) {
	var raw rawMovie
	if err := c.get(ctx, OpGetDetail, "/movie/"+strconv.Itoa(id), nil, &raw); err != nil {
		return models.CatalogItem{}, err
	}

	item, ok := raw.normalize(c.images)
	if !ok {
		return models.CatalogItem{}, fmt.Errorf("catalog: detail for movie %d has no valid id", id)
	}
	return item, nil
}

// GetRecommendations fetches the first page of TMDB recommendations for a
// movie, in TMDB order. Rows without a valid id are dropped.
func (c *Client) GetRecommendations(ctx context.Context, id int) ([]models.CatalogItem, error) {
	var page rawPage
	params := url.Values{"page": {"1"}}
	if err := c.get(ctx, OpGetRecommendations, "/movie/"+strconv.Itoa(id)+"/recommendations", params, &page); err != nil {
		return nil, err
	}

	items := make([]models.CatalogItem, 0, len(page.Results))
	for i := range page.Results {
		if item, ok := page.Results[i].normalize(c.images); ok {
			items = append(items, item)
		}
	}
	if dropped := len(page.Results) - len(items); dropped > 0 {
		logging.Ctx(ctx).Debug().Int("movie_id", id).Int("dropped", dropped).Msg("dropped catalog rows without a valid id")
	}
	return items, nil
}

// GetGenreTaxonomy fetches the movie genre list.
func (c *Client) GetGenreTaxonomy(ctx context.Context) (models.GenreTaxonomy, error) {
	var list rawGenreList
	if err := c.get(ctx, OpGetGenres, "/genre/movie/list", nil, &list); err != nil {
		return nil, err
	}

	taxonomy := make(models.GenreTaxonomy, len(list.Genres))
	for _, g := range list.Genres {
		if name := strings.TrimSpace(g.Name); g.ID > 0 && name != "" {
			taxonomy[g.ID] = name
		}
	}
	return taxonomy, nil
}

// get performs one GET and decodes a 2xx body into out.
func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) (err error) {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	start := time.Now()
	defer func() {
		metrics.RecordCatalogRequest(op, time.Since(start), err)
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("catalog %s: rate limiter: %w", op, err)
		}
	}

	req, err := c.newRequest(ctx, path, params)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", op, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			Code:    resp.StatusCode,
			Message: errorMessage(resp.StatusCode, readBodyForError(resp.Body)),
		}
		logging.Ctx(ctx).Warn().
			Str("operation", op).
			Int("status", resp.StatusCode).
			Str("message", statusErr.Message).
			Msg("catalog request failed")
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog %s: failed to decode response: %w", op, err)
	}
	return nil
}

// newRequest builds the request URL and authentication. Keys starting with
// "Bearer " are v4 read tokens sent as a header; anything else is a v3 key
// sent as the api_key parameter.
func (c *Client) newRequest(ctx context.Context, path string, params url.Values) (*http.Request, error) {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	if c.language != "" {
		query.Set("language", c.language)
	}

	bearer := strings.HasPrefix(strings.ToLower(c.apiKey), "bearer ")
	if !bearer {
		query.Set("api_key", c.apiKey)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if bearer {
		req.Header.Set("Authorization", c.apiKey)
	}
	return req, nil
}

// readBodyForError reads at most maxErrorBodySize bytes of an error body.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return nil
	}
	return body
}

// errorMessage prefers TMDB's status_message, then a generic "error" field.
func errorMessage(status int, body []byte) string {
	var payload struct {
		StatusMessage any `json:"status_message"`
		Error         any `json:"error"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		if msg, ok := payload.StatusMessage.(string); ok && msg != "" {
			return msg
		}
		if msg, ok := payload.Error.(string); ok && msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("TMDB request failed: %d", status)
}
