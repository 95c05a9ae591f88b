// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

/*
Package config loads the service configuration with Koanf v2.

Sources are layered, later layers winning:

 1. Struct defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/recon/config.yaml
 3. Environment variables listed in envMappings

Unmapped environment variables are ignored. Comma-separated values are split
for the slice fields in sliceConfigPaths.

Minimal environment for a personalized deployment:

	TMDB_API_KEY=...
	STORE_BACKEND=supabase
	SUPABASE_URL=https://xyz.supabase.co
	SUPABASE_SERVICE_ROLE_KEY=...
	AUTH_SECRET=...

Without TMDB_API_KEY the server starts but /recommendations answers 500, and
/health/ready reports the catalog as not configured.
*/
package config
