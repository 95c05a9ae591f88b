// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package identity

import (
	"fmt"

	"github.com/reconhq/recon/internal/config"
	"github.com/reconhq/recon/internal/store"
)

// FromConfig assembles the chain in the order extension token, session JWT,
// Supabase session. tokens and users may be nil when their backend is not
// configured; the matching authenticator is then left out.
func FromConfig(cfg *config.IdentityConfig, tokens store.TokenStore, users UserLookup) (*Chain, error) {
	var authenticators []Authenticator

	if cfg.ExtensionTokens && tokens != nil {
		authenticators = append(authenticators, NewExtensionTokenAuthenticator(tokens))
	}

	if cfg.SessionSecret != "" {
		session, err := NewSessionAuthenticator(cfg.SessionSecret, cfg.SessionCookie, cfg.SessionIssuer)
		if err != nil {
			return nil, fmt.Errorf("session authenticator: %w", err)
		}
		authenticators = append(authenticators, session)
	}

	if cfg.SupabaseAuth && users != nil {
		cookie := cfg.SessionCookie
		if cfg.SessionSecret != "" {
			cookie = ""
		}
		authenticators = append(authenticators, NewSupabaseAuthenticator(users, cookie))
	}

	return NewChain(authenticators...), nil
}
