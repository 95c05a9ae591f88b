// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/reconhq/recon/internal/logging"
	"github.com/reconhq/recon/internal/store"
)

// ExtensionTokenPrefix marks API tokens issued to the browser extension.
const ExtensionTokenPrefix = "recon_"

// HashToken returns the hex SHA-256 digest stored for a raw token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ExtensionTokenAuthenticator resolves "recon_" bearer tokens through the
// store's token table.
type ExtensionTokenAuthenticator struct {
	tokens store.TokenStore
}

// NewExtensionTokenAuthenticator returns an authenticator over tokens.
func NewExtensionTokenAuthenticator(tokens store.TokenStore) *ExtensionTokenAuthenticator {
	return &ExtensionTokenAuthenticator{tokens: tokens}
}

// Name returns "extension_token".
func (a *ExtensionTokenAuthenticator) Name() string { return "extension_token" }

// Authenticate looks up the hashed bearer token.
func (a *ExtensionTokenAuthenticator) Authenticate(ctx context.Context, r *http.Request) (string, error) {
	token := bearerToken(r)
	if !strings.HasPrefix(token, ExtensionTokenPrefix) {
		return "", ErrNoCredentials
	}

	userID, err := a.tokens.LookupTokenUser(ctx, HashToken(token))
	switch {
	case err == nil:
		return userID, nil
	case errors.Is(err, store.ErrTokenNotFound):
		logging.Ctx(ctx).Debug().
			Str("token", logging.SanitizeToken(token)).
			Msg("Unknown extension token")
		return "", ErrInvalidToken
	default:
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}
