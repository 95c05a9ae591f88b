// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/reconhq/recon/internal/config"
	"github.com/reconhq/recon/internal/store"
)

func testCatalogConfig() config.CatalogConfig {
	return config.CatalogConfig{
		BaseURL:          "http://127.0.0.1:1",
		APIKey:           "key",
		ImageBaseURL:     "https://image.tmdb.org/t/p",
		Timeout:          time.Second,
		GenreTTL:         time.Hour,
		GenreFallbackTTL: time.Minute,
	}
}

func TestInitCatalog(t *testing.T) {
	t.Run("local cache only", func(t *testing.T) {
		cfg := testCatalogConfig()
		stack, err := initCatalog(&cfg)
		if err != nil {
			t.Fatalf("initCatalog: %v", err)
		}
		defer stack.Close()
		if stack.client == nil || stack.genres == nil {
			t.Fatal("client and genres must be set")
		}
		if stack.shared != nil {
			t.Error("shared cache should be nil without REDIS_URL")
		}
		if !stack.client.HasAPIKey() {
			t.Error("breaker client should report the configured key")
		}
	})

	t.Run("unreachable redis is tolerated", func(t *testing.T) {
		cfg := testCatalogConfig()
		cfg.RedisURL = "redis://127.0.0.1:1/0"
		stack, err := initCatalog(&cfg)
		if err != nil {
			t.Fatalf("initCatalog: %v", err)
		}
		defer stack.Close()
		if stack.shared == nil {
			t.Error("shared cache should be wired when REDIS_URL is set")
		}
	})

	t.Run("invalid redis url", func(t *testing.T) {
		cfg := testCatalogConfig()
		cfg.RedisURL = "http://not-redis"
		if _, err := initCatalog(&cfg); err == nil {
			t.Fatal("expected error for non-redis url")
		}
	})
}

func TestInitStore(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		st, err := initStore(&config.StoreConfig{Backend: config.StoreBackendNone})
		if err != nil {
			t.Fatalf("initStore: %v", err)
		}
		if st != nil {
			t.Errorf("store = %T, want nil", st)
		}
	})

	t.Run("supabase without credentials", func(t *testing.T) {
		_, err := initStore(&config.StoreConfig{Backend: config.StoreBackendSupabase})
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := initStore(&config.StoreConfig{Backend: "mongo"})
		if err == nil || !strings.Contains(err.Error(), "mongo") {
			t.Fatalf("err = %v, want mention of backend", err)
		}
	})
}

func TestInitIdentity(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantLen int
		wantErr bool
	}{
		{
			name:    "nothing configured",
			mutate:  func(*config.Config) {},
			wantLen: 0,
		},
		{
			name: "session secret",
			mutate: func(c *config.Config) {
				c.Identity.SessionSecret = strings.Repeat("s", 32)
			},
			wantLen: 1,
		},
		{
			name: "supabase auth with credentials",
			mutate: func(c *config.Config) {
				c.Store.SupabaseURL = "https://project.supabase.co"
				c.Store.SupabaseKey = "service-role"
				c.Identity.SupabaseAuth = true
			},
			wantLen: 1,
		},
		{
			name: "supabase auth without credentials",
			mutate: func(c *config.Config) {
				c.Identity.SupabaseAuth = true
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Identity: config.IdentityConfig{ExtensionTokens: true, SessionCookie: "session"},
			}
			tt.mutate(cfg)

			chain, err := initIdentity(cfg, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("initIdentity: %v", err)
			}
			if chain.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", chain.Len(), tt.wantLen)
			}
		})
	}
}

func TestInitIdentity_ExtensionTokensUseStore(t *testing.T) {
	cfg := &config.Config{
		Identity: config.IdentityConfig{ExtensionTokens: true, SessionCookie: "session"},
	}
	chain, err := initIdentity(cfg, store.Unconfigured{})
	if err != nil {
		t.Fatalf("initIdentity: %v", err)
	}
	if chain.Len() != 1 {
		t.Errorf("Len() = %d, want 1", chain.Len())
	}
}

func TestRun_ReturnsStartupErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "catalog",
			mutate: func(c *config.Config) { c.Catalog.RedisURL = "http://not-redis" },
			want:   "initialize catalog",
		},
		{
			name:   "store after catalog",
			mutate: func(c *config.Config) { c.Store.Backend = "mongo" },
			want:   "initialize store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Catalog: testCatalogConfig()}
			tt.mutate(cfg)

			err := run(cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("run() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}
