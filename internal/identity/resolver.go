// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

// Package identity resolves the calling user from request credentials.
//
// A Chain tries its authenticators in order and stops at the first one that
// yields a user id. Authenticators report ErrNoCredentials when the request
// carries nothing they understand; any other error is logged and the next
// authenticator is tried. A request nobody recognizes is anonymous, never an
// error: recommendations are served to anonymous callers unpersonalized.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/reconhq/recon/internal/logging"
	"github.com/reconhq/recon/internal/metrics"
)

var (
	// ErrNoCredentials means the request holds no credential this
	// authenticator handles.
	ErrNoCredentials = errors.New("no credentials")

	// ErrInvalidToken means a credential was present but rejected.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnavailable means the backing service could not be reached.
	ErrUnavailable = errors.New("identity backend unavailable")
)

// Authenticator maps request credentials to a user id.
type Authenticator interface {
	Name() string
	Authenticate(ctx context.Context, r *http.Request) (string, error)
}

// Chain tries authenticators in order.
type Chain struct {
	authenticators []Authenticator
}

// NewChain returns a chain over the given authenticators. Nil entries are
// skipped.
func NewChain(authenticators ...Authenticator) *Chain {
	c := &Chain{authenticators: make([]Authenticator, 0, len(authenticators))}
	for _, a := range authenticators {
		if a != nil {
			c.authenticators = append(c.authenticators, a)
		}
	}
	return c
}

// Len returns the number of configured authenticators.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.authenticators)
}

// Resolve returns the caller's user id, or false for anonymous callers.
func (c *Chain) Resolve(r *http.Request) (string, bool) {
	if c == nil {
		return "", false
	}
	ctx := r.Context()
	for _, a := range c.authenticators {
		userID, err := a.Authenticate(ctx, r)
		switch {
		case err == nil && userID != "":
			metrics.RecordIdentityResolution(a.Name(), "hit")
			logging.Ctx(ctx).Debug().
				Str("resolver", a.Name()).
				Str("user_id", logging.SanitizeUserID(userID)).
				Msg("Caller resolved")
			return userID, true
		case err == nil, errors.Is(err, ErrNoCredentials):
			continue
		case errors.Is(err, ErrInvalidToken):
			metrics.RecordIdentityResolution(a.Name(), "invalid")
		default:
			metrics.RecordIdentityResolution(a.Name(), "error")
		}
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("resolver", a.Name()).
			Msg("Identity resolution failed, trying next resolver")
	}
	return "", false
}

// bearerToken returns the Authorization bearer token, or "".
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// runBlocking runs call on its own goroutine and returns early when ctx
// ends. Used for client libraries without context support.
func runBlocking[T any](ctx context.Context, call func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := call()
		done <- result{value: v, err: err}
	}()
	select {
	case res := <-done:
		return res.value, res.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
