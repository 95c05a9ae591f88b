// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reconhq/recon/internal/catalog"
	"github.com/reconhq/recon/internal/logging"
	"github.com/reconhq/recon/internal/models"
	"github.com/reconhq/recon/internal/recommend"
)

// recommendParams is the validated path of the recommendation endpoint.
type recommendParams struct {
	SeedItemID int `json:"seed_item_id" validate:"gt=0"`
}

// Recommendations handles GET /recommendations/{seedItemID}.
//
// Anonymous callers get the catalog's list in catalog order. Signed-in
// callers get the list re-ranked by their history, or the catalog order with
// a warning when their history cannot be read.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "seedItemID")
	seedID, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidID, "Invalid movie id", nil)
		return
	}
	params := recommendParams{SeedItemID: seedID}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	userID, _ := h.resolver.Resolve(r)

	result, err := h.engine.Recommend(r.Context(), recommend.Request{
		SeedID: params.SeedItemID,
		UserID: userID,
	})
	if err != nil {
		h.respondRecommendError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("seed_id", params.SeedItemID).
		Str("outcome", result.Outcome.String()).
		Int("results", len(result.Results)).
		Msg("Recommendations served")

	respondJSON(w, http.StatusOK, result.Response())
}

func (h *Handler) respondRecommendError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalog.ErrMissingAPIKey) {
		respondError(w, http.StatusInternalServerError, CodeCatalogNotConfigured, "Movie catalog is not configured", err)
		return
	}

	if r.Context().Err() != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Client went away before recommendations were ready")
	}

	apiErr := &models.APIError{
		Code:    CodeCatalogUnavailable,
		Message: "Failed to fetch recommendations from the movie catalog",
	}
	var statusErr *catalog.StatusError
	if errors.As(err, &statusErr) {
		apiErr.Details = map[string]interface{}{"upstream_status": statusErr.Code}
	}
	if errors.Is(err, catalog.ErrCircuitOpen) {
		apiErr.Details = map[string]interface{}{"circuit": "open"}
	}
	respondErrorDetails(w, http.StatusBadGateway, apiErr, err)
}
