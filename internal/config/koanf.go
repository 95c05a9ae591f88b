// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/reconhq/recon/internal/recommend"
)

// DefaultConfigPaths lists the config files searched, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/recon/config.yaml",
	"/etc/recon/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Catalog: CatalogConfig{
			BaseURL:          "https://api.themoviedb.org/3",
			APIKey:           "",
			Language:         "en-US",
			ImageBaseURL:     "https://image.tmdb.org/t/p",
			Timeout:          10 * time.Second,
			RateLimit:        40, // TMDB allows roughly 50 req/s per IP
			RateBurst:        20,
			GenreTTL:         24 * time.Hour,
			GenreFallbackTTL: 5 * time.Minute,
			RedisURL:         "",
			RedisKey:         "recon:genres:movie",

			GenreWarmInterval: 0,
		},
		Store: StoreConfig{
			Backend:      StoreBackendNone,
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			QueryTimeout: 5 * time.Second,
		},
		Identity: IdentityConfig{
			ExtensionTokens: true,
			SessionCookie:   "session",
			SupabaseAuth:    false,
		},
		Recommend: recommend.DefaultConfig(),
		Security: SecurityConfig{
			RateLimitReqs:     120,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file and
// the environment, in that order of increasing priority, then validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Catalog
	"tmdb_api_key":        "catalog.api_key",
	"tmdb_base_url":       "catalog.base_url",
	"tmdb_language":       "catalog.language",
	"tmdb_image_base_url": "catalog.image_base_url",
	"tmdb_timeout":        "catalog.timeout",
	"tmdb_rate_limit":     "catalog.rate_limit",
	"tmdb_rate_burst":     "catalog.rate_burst",
	"genre_cache_ttl":     "catalog.genre_ttl",
	"genre_fallback_ttl":  "catalog.genre_fallback_ttl",
	"genre_warm_interval": "catalog.genre_warm_interval",
	"redis_url":           "catalog.redis_url",
	"redis_genre_key":     "catalog.redis_key",

	// Store
	"store_backend":             "store.backend",
	"supabase_url":              "store.supabase_url",
	"supabase_service_role_key": "store.supabase_key",
	"database_url":              "store.postgres_dsn",
	"db_max_open_conns":         "store.max_open_conns",
	"db_max_idle_conns":         "store.max_idle_conns",
	"store_query_timeout":       "store.query_timeout",

	// Identity
	"extension_tokens_enabled": "identity.extension_tokens",
	"auth_secret":              "identity.session_secret",
	"session_cookie":           "identity.session_cookie",
	"session_issuer":           "identity.session_issuer",
	"supabase_auth_enabled":    "identity.supabase_auth",

	// Recommendation tuning
	"recommend_history_limit":      "recommend.history_limit",
	"recommend_recent_limit":       "recommend.recent_limit",
	"recommend_top_genres":         "recommend.top_genres_limit",
	"recommend_enrich_concurrency": "recommend.enrich_concurrency",
	"recommend_result_limit":       "recommend.result_limit",
	"recommend_weighting_k":        "recommend.weighting.k",
	"recommend_weighting_floor":    "recommend.weighting.floor",
	"recommend_genre_boost":        "recommend.boosts.genre",
	"recommend_recent_boost":       "recommend.boosts.recent",
	"recommend_completed_boost":    "recommend.boosts.completed",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to its koanf path. Unmapped
// variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
