// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package config

import (
	"fmt"
	"time"

	"github.com/reconhq/recon/internal/validation"
)

// Validate checks struct tags first, then the cross-field rules.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateCatalog(); err != nil {
		return err
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	if err := c.validateIdentity(); err != nil {
		return err
	}

	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	return c.validateSecurity()
}

func (c *Config) validateCatalog() error {
	if c.Catalog.GenreFallbackTTL > c.Catalog.GenreTTL {
		return fmt.Errorf("GENRE_FALLBACK_TTL (%v) must not exceed GENRE_CACHE_TTL (%v)",
			c.Catalog.GenreFallbackTTL, c.Catalog.GenreTTL)
	}
	if c.Catalog.RateLimit > 0 && c.Catalog.RateBurst < 1 {
		return fmt.Errorf("TMDB_RATE_BURST must be at least 1 when TMDB_RATE_LIMIT is set")
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case StoreBackendSupabase:
		if !c.Store.HasSupabase() {
			return fmt.Errorf("STORE_BACKEND=supabase requires SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY")
		}
	case StoreBackendPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("STORE_BACKEND=postgres requires DATABASE_URL")
		}
	}
	return nil
}

func (c *Config) validateIdentity() error {
	if c.Identity.SupabaseAuth && !c.Store.HasSupabase() {
		return fmt.Errorf("SUPABASE_AUTH_ENABLED requires SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY")
	}
	return nil
}

// Rate limit bounds.
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if c.IsProduction() && c.hasWildcardCORS() && c.IdentityEnabled() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production with caller identity enabled; " +
			"set specific origins, e.g. CORS_ORIGINS=https://recon.example.com")
	}

	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports a wildcard origin combined with caller
// identity, which is logged at startup outside production.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS() && c.IdentityEnabled()
}

// IdentityEnabled reports whether any identity resolver can be installed.
func (c *Config) IdentityEnabled() bool {
	return (c.Identity.ExtensionTokens && c.Store.Enabled()) ||
		c.Identity.SessionSecret != "" ||
		c.Identity.SupabaseAuth
}
