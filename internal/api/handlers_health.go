// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/reconhq/recon/internal/logging"
	"github.com/reconhq/recon/internal/models"
)

// storePingTimeout bounds the readiness probe's store check.
const storePingTimeout = 2 * time.Second

// HealthLive is the liveness probe. It answers 200 while the process serves
// HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status": "alive",
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady reports whether the catalog key and store are configured.
// The service can answer without a store (every signed-in request degrades),
// so only a missing catalog key makes it unready.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	storeReady := false
	if h.readiness.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), storePingTimeout)
		err := h.readiness.Store.Ping(ctx)
		cancel()
		storeReady = err == nil
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Store ping failed")
		}
	}

	health := models.HealthStatus{
		Status:          "ready",
		CatalogReady:    h.readiness.CatalogConfigured,
		StoreReady:      storeReady,
		IdentityEnabled: h.readiness.IdentityEnabled,
	}

	status := http.StatusOK
	switch {
	case !health.CatalogReady:
		health.Status = "not_ready"
		status = http.StatusServiceUnavailable
	case h.readiness.Store != nil && !storeReady:
		health.Status = "degraded"
	}

	respondSuccess(w, status, health)
}
