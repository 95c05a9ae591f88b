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
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionCookie is the cookie carrying the session JWT.
const DefaultSessionCookie = "session"

// SessionAuthenticator verifies HS256 session JWTs from the web app. The
// subject claim is the user id.
type SessionAuthenticator struct {
	secret []byte
	cookie string
	parser *jwt.Parser
}

// NewSessionAuthenticator returns an authenticator for tokens signed with
// secret. A non-empty issuer is enforced.
func NewSessionAuthenticator(secret, cookie, issuer string) (*SessionAuthenticator, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	if cookie == "" {
		cookie = DefaultSessionCookie
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &SessionAuthenticator{
		secret: []byte(secret),
		cookie: cookie,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Name returns "session".
func (a *SessionAuthenticator) Name() string { return "session" }

// Authenticate verifies the bearer token, else the session cookie.
// Extension tokens are left to the extension token authenticator.
func (a *SessionAuthenticator) Authenticate(_ context.Context, r *http.Request) (string, error) {
	token := a.extractToken(r)
	if token == "" {
		return "", ErrNoCredentials
	}

	var claims jwt.RegisteredClaims
	_, err := a.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

func (a *SessionAuthenticator) extractToken(r *http.Request) string {
	if token := bearerToken(r); token != "" && !strings.HasPrefix(token, ExtensionTokenPrefix) {
		return token
	}
	if cookie, err := r.Cookie(a.cookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}
