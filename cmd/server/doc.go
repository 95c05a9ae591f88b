// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

/*
Package main is the entry point for the Recon recommendation server.

Recon takes a seed movie, asks TMDB for its similar titles, and re-ranks them
for the caller using the genres of the movies on their watchlist and the ones
they have finished. Anonymous callers get TMDB's order unchanged.

# Application Architecture

	RootSupervisor ("recon")
	├── CacheSupervisor ("cache-layer")
	│   └── Genre warmer (optional, GENRE_WARM_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog with JSON/console output modes
 3. Catalog: TMDB client behind a circuit breaker, genre taxonomy cache
 4. Store: Supabase REST, Postgres (GORM) or none
 5. Identity: extension tokens, session JWTs, Supabase Auth
 6. Engine: recommendation pipeline with the personalized re-ranker
 7. Supervisor Tree: Suture v4 process supervision

# Configuration

The most common environment variables:

	TMDB_API_KEY               TMDB v3 key or "Bearer <v4 token>"
	STORE_BACKEND              none, supabase or postgres
	SUPABASE_URL               Supabase project URL
	SUPABASE_SERVICE_ROLE_KEY  Supabase service key
	DATABASE_URL               Postgres DSN for the postgres backend
	AUTH_SECRET                HS256 secret for session JWTs
	REDIS_URL                  optional shared genre cache
	GENRE_WARM_INTERVAL        optional background taxonomy refresh
	HTTP_PORT                  listen port (default 5000)

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
SHUTDOWN_TIMEOUT, then the store and Redis connections are closed.

# Example Usage

	export TMDB_API_KEY=your-tmdb-key
	export STORE_BACKEND=supabase
	export SUPABASE_URL=https://project.supabase.co
	export SUPABASE_SERVICE_ROLE_KEY=service-role-key
	export AUTH_SECRET=$(openssl rand -base64 32)
	./recon

	curl -H "Authorization: Bearer recon_xxx" localhost:5000/recommendations/550
*/
package main
