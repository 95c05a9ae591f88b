// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

// Package parallel provides bounded-concurrency helpers for fan-out calls to
// upstream services.
package parallel

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// MapBounded applies fn to every item using at most n concurrent workers and
// returns the results in input order.
//
// Workers share a cursor and claim the next unprocessed index until the input
// is exhausted, so every item is visited exactly once regardless of how long
// individual calls take. The first error returned by fn cancels the context
// passed to the remaining calls, stops further claims, and is returned; results
// are nil in that case. Callers that want per-item degradation should handle
// the failure inside fn and return a substitute value instead.
func MapBounded[T, R any](ctx context.Context, items []T, n int, fn func(context.Context, T) (R, error)) ([]R, error) {
	if len(items) == 0 {
		return []R{}, nil
	}
	if n < 1 {
		n = 1
	}
	workers := min(n, len(items))

	results := make([]R, len(items))
	var cursor atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				i := int(cursor.Add(1) - 1)
				if i >= len(items) {
					return nil
				}
				r, err := fn(gctx, items[i])
				if err != nil {
					return err
				}
				results[i] = r
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
