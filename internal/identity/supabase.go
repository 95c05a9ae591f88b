// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/supabase-community/supabase-go"
)

// UserLookup exchanges an access token for its user id.
type UserLookup interface {
	LookupUser(ctx context.Context, accessToken string) (string, error)
}

// SupabaseUserLookup asks Supabase Auth who owns an access token.
type SupabaseUserLookup struct {
	client *supabase.Client
}

// NewSupabaseUserLookup wraps a Supabase client.
func NewSupabaseUserLookup(client *supabase.Client) *SupabaseUserLookup {
	return &SupabaseUserLookup{client: client}
}

// LookupUser calls the Auth user endpoint with accessToken.
func (l *SupabaseUserLookup) LookupUser(ctx context.Context, accessToken string) (string, error) {
	return runBlocking(ctx, func() (string, error) {
		user, err := l.client.Auth.WithToken(accessToken).GetUser()
		if err != nil {
			return "", err
		}
		return user.ID.String(), nil
	})
}

// SupabaseAuthenticator resolves bearer tokens and the session cookie as
// Supabase access tokens.
type SupabaseAuthenticator struct {
	users  UserLookup
	cookie string
}

// NewSupabaseAuthenticator returns an authenticator over users. An empty
// cookie disables the cookie fallback.
func NewSupabaseAuthenticator(users UserLookup, cookie string) *SupabaseAuthenticator {
	return &SupabaseAuthenticator{users: users, cookie: cookie}
}

// Name returns "supabase".
func (a *SupabaseAuthenticator) Name() string { return "supabase" }

// Authenticate exchanges the token for a user id.
func (a *SupabaseAuthenticator) Authenticate(ctx context.Context, r *http.Request) (string, error) {
	token := bearerToken(r)
	if strings.HasPrefix(token, ExtensionTokenPrefix) {
		token = ""
	}
	if token == "" && a.cookie != "" {
		if cookie, err := r.Cookie(a.cookie); err == nil {
			token = cookie.Value
		}
	}
	if token == "" {
		return "", ErrNoCredentials
	}

	userID, err := a.users.LookupUser(ctx, token)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if userID == "" || userID == zeroUUID {
		return "", ErrInvalidToken
	}
	return userID, nil
}

const zeroUUID = "00000000-0000-0000-0000-000000000000"
