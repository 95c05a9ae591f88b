// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// isolateEnv clears every mapped variable so the host environment cannot
// leak into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, "")
	for key := range envMappings {
		t.Setenv(strings.ToUpper(key), "")
		os.Unsetenv(strings.ToUpper(key))
	}
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Catalog.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("Catalog.BaseURL = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.Timeout != 10*time.Second {
		t.Errorf("Catalog.Timeout = %v, want 10s", cfg.Catalog.Timeout)
	}
	if cfg.Catalog.GenreTTL != 24*time.Hour || cfg.Catalog.GenreFallbackTTL != 5*time.Minute {
		t.Errorf("genre TTLs = %v/%v", cfg.Catalog.GenreTTL, cfg.Catalog.GenreFallbackTTL)
	}
	if cfg.Catalog.HasAPIKey() {
		t.Error("no API key should be configured by default")
	}
	if cfg.Store.Enabled() {
		t.Error("store should be disabled by default")
	}
	if cfg.Recommend.ResultLimit != 8 || cfg.Recommend.HistoryLimit != 25 {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if cfg.Recommend.Weighting.Floor != 0.30 {
		t.Errorf("Weighting.Floor = %v", cfg.Recommend.Weighting.Floor)
	}
	if cfg.Identity.SessionCookie != "session" {
		t.Errorf("Identity.SessionCookie = %q", cfg.Identity.SessionCookie)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("TMDB_API_KEY", "Bearer v4-token")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("GENRE_CACHE_TTL", "12h")
	t.Setenv("GENRE_WARM_INTERVAL", "6h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RECOMMEND_RESULT_LIMIT", "10")
	t.Setenv("RECOMMEND_WEIGHTING_FLOOR", "0.25")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://recon@localhost/recon")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Catalog.APIKey != "Bearer v4-token" {
		t.Errorf("Catalog.APIKey = %q", cfg.Catalog.APIKey)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Catalog.GenreTTL != 12*time.Hour {
		t.Errorf("Catalog.GenreTTL = %v, want 12h", cfg.Catalog.GenreTTL)
	}
	if cfg.Catalog.GenreWarmInterval != 6*time.Hour {
		t.Errorf("Catalog.GenreWarmInterval = %v, want 6h", cfg.Catalog.GenreWarmInterval)
	}
	wantOrigins := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, wantOrigins) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, wantOrigins)
	}
	if cfg.Recommend.ResultLimit != 10 {
		t.Errorf("Recommend.ResultLimit = %d, want 10", cfg.Recommend.ResultLimit)
	}
	if cfg.Recommend.Weighting.Floor != 0.25 {
		t.Errorf("Weighting.Floor = %v, want 0.25", cfg.Recommend.Weighting.Floor)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Store.Backend != StoreBackendPostgres || cfg.Store.PostgresDSN == "" {
		t.Errorf("Store = %+v", cfg.Store)
	}
}

func TestLoadWithKoanf_YAMLFile(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "recon.yaml")
	yamlContent := `
server:
  port: 9000
catalog:
  api_key: file-key
  rate_limit: 0
recommend:
  boosts:
    completed: 0.3
logging:
  format: console
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9100")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("env should override file: Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Catalog.APIKey != "file-key" {
		t.Errorf("Catalog.APIKey = %q", cfg.Catalog.APIKey)
	}
	if cfg.Catalog.RateLimit != 0 {
		t.Errorf("Catalog.RateLimit = %v, want 0", cfg.Catalog.RateLimit)
	}
	if cfg.Recommend.Boosts.Completed != 0.3 {
		t.Errorf("Boosts.Completed = %v, want 0.3", cfg.Recommend.Boosts.Completed)
	}
	if cfg.Recommend.Boosts.Genre != 0.15 {
		t.Errorf("unset boosts should keep defaults, Genre = %v", cfg.Recommend.Boosts.Genre)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q", cfg.Logging.Format)
	}
}

func TestLoadWithKoanf_InvalidConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("STORE_BACKEND", "supabase")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected error for supabase backend without credentials")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{"TMDB_API_KEY", "catalog.api_key"},
		{"tmdb_api_key", "catalog.api_key"},
		{"SUPABASE_SERVICE_ROLE_KEY", "store.supabase_key"},
		{"AUTH_SECRET", "identity.session_secret"},
		{"RECOMMEND_WEIGHTING_K", "recommend.weighting.k"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
