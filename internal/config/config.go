// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package config

import (
	"fmt"
	"time"

	"github.com/reconhq/recon/internal/recommend"
)

// Config is the full service configuration. It is immutable after Load and
// safe for concurrent reads.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Catalog   CatalogConfig    `koanf:"catalog"`
	Store     StoreConfig      `koanf:"store"`
	Identity  IdentityConfig   `koanf:"identity"`
	Recommend recommend.Config `koanf:"recommend"`
	Security  SecurityConfig   `koanf:"security"`
	Logging   LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	Environment     string        `koanf:"environment" validate:"oneof=development staging production"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig holds TMDB client settings.
//
// Environment Variables:
//   - TMDB_API_KEY: v3 key (query parameter) or "Bearer <v4 token>" (header)
//   - TMDB_BASE_URL: API root (default: https://api.themoviedb.org/3)
//   - TMDB_TIMEOUT: per-request timeout (default: 10s)
//   - TMDB_RATE_LIMIT: outbound requests per second, 0 disables (default: 40)
//   - GENRE_CACHE_TTL / GENRE_FALLBACK_TTL: taxonomy cache lifetimes
//   - GENRE_WARM_INTERVAL: background taxonomy refresh, 0 disables (default: 0)
//   - REDIS_URL: optional shared taxonomy cache
type CatalogConfig struct {
	BaseURL      string        `koanf:"base_url" validate:"required,baseurl"`
	APIKey       string        `koanf:"api_key"`
	Language     string        `koanf:"language"`
	ImageBaseURL string        `koanf:"image_base_url" validate:"required,baseurl"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`

	// RateLimit is the outbound request rate per second. Zero disables it.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
	RateBurst int     `koanf:"rate_burst" validate:"gte=0"`

	GenreTTL         time.Duration `koanf:"genre_ttl" validate:"gt=0"`
	GenreFallbackTTL time.Duration `koanf:"genre_fallback_ttl" validate:"gt=0"`

	// GenreWarmInterval enables a background taxonomy refresh at this
	// interval. Zero leaves the taxonomy to be fetched on demand.
	GenreWarmInterval time.Duration `koanf:"genre_warm_interval" validate:"gte=0"`

	// RedisURL enables the shared taxonomy cache when set.
	RedisURL string `koanf:"redis_url" validate:"omitempty,url"`
	RedisKey string `koanf:"redis_key"`
}

// HasAPIKey reports whether a TMDB key is configured.
func (c CatalogConfig) HasAPIKey() bool {
	return c.APIKey != ""
}

// Store backends.
const (
	StoreBackendNone     = "none"
	StoreBackendSupabase = "supabase"
	StoreBackendPostgres = "postgres"
)

// StoreConfig selects and configures the interaction store.
type StoreConfig struct {
	Backend string `koanf:"backend" validate:"oneof=none supabase postgres"`

	SupabaseURL string `koanf:"supabase_url" validate:"omitempty,baseurl"`
	SupabaseKey string `koanf:"supabase_key"`

	PostgresDSN  string `koanf:"postgres_dsn"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `koanf:"max_idle_conns" validate:"gte=0"`

	// QueryTimeout bounds each store query. Zero leaves the request context
	// as the only bound.
	QueryTimeout time.Duration `koanf:"query_timeout" validate:"gte=0"`
}

// Enabled reports whether any store backend is configured.
func (s StoreConfig) Enabled() bool {
	return s.Backend != "" && s.Backend != StoreBackendNone
}

// HasSupabase reports whether Supabase credentials are present.
func (s StoreConfig) HasSupabase() bool {
	return s.SupabaseURL != "" && s.SupabaseKey != ""
}

// IdentityConfig configures the caller resolver chain. Resolvers run in the
// order extension token, session JWT, Supabase session.
type IdentityConfig struct {
	// ExtensionTokens enables "recon_" bearer tokens looked up in the store.
	ExtensionTokens bool `koanf:"extension_tokens"`

	// SessionSecret enables HS256 session JWTs when set.
	SessionSecret string `koanf:"session_secret" validate:"omitempty,min=32"`
	SessionCookie string `koanf:"session_cookie" validate:"required"`
	SessionIssuer string `koanf:"session_issuer"`

	// SupabaseAuth resolves other bearer tokens through Supabase Auth.
	SupabaseAuth bool `koanf:"supabase_auth"`
}

// SecurityConfig holds inbound rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds zerolog settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"loglevel"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load is the standard entry point and delegates to LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
