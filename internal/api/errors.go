// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package api

// Error codes returned in the APIError envelope.
const (
	CodeInvalidID            = "INVALID_ID"
	CodeValidation           = "VALIDATION_ERROR"
	CodeCatalogNotConfigured = "CATALOG_NOT_CONFIGURED"
	CodeCatalogUnavailable   = "CATALOG_UNAVAILABLE"
	CodeNotFound             = "NOT_FOUND"
	CodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	CodeRateLimited          = "RATE_LIMITED"
	CodeInternal             = "INTERNAL_ERROR"
)
