// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

/*
Package api provides the HTTP layer of the Recon recommendation service.

Routes:

	GET /recommendations/{seedItemID}  personalized "more like this" list
	GET /health/live                   liveness probe, always 200
	GET /health/ready                  configuration readiness
	GET /metrics                       Prometheus exposition

The recommendation endpoint returns its payload bare:

	{"results":[...],"original_movie":{...},"warning":"...","personalization":{...}}

Errors on every route use the models.APIResponse envelope:

	{"status":"error","data":null,"metadata":{...},"error":{"code":"INVALID_ID","message":"..."}}

Status codes for the recommendation endpoint:

  - 400 when the seed id is not a positive integer
  - 500 when the catalog API key is not configured
  - 502 when the seed detail or its candidates cannot be fetched
  - 200 otherwise, including when personalization is unavailable

Middleware stack (outermost first): request id and logging context, real IP,
panic recovery, CORS, per-route rate limiting, security headers, and
Prometheus request metrics.

Callers are identified by an identity resolver. Anonymous callers receive the
catalog's list in catalog order; see package identity for the credential
types accepted.
*/
package api
