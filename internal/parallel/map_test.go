// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMapBounded_PreservesOrder(t *testing.T) {
	t.Parallel()

	items := []int{5, 1, 4, 2, 3, 0}
	got, err := MapBounded(context.Background(), items, 3, func(_ context.Context, v int) (int, error) {
		// Larger values finish later, so completion order differs from input order.
		time.Sleep(time.Duration(v) * time.Millisecond)
		return v * 10, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, v := range items {
		if got[i] != v*10 {
			t.Errorf("result[%d] = %d, want %d", i, got[i], v*10)
		}
	}
}

func TestMapBounded_CapsConcurrency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		items     int
		n         int
		wantLimit int32
	}{
		{"fewer items than workers", 2, 4, 2},
		{"more items than workers", 20, 4, 4},
		{"zero workers clamps to one", 5, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var inFlight, peak atomic.Int32
			items := make([]int, tt.items)
			_, err := MapBounded(context.Background(), items, tt.n, func(_ context.Context, _ int) (struct{}, error) {
				cur := inFlight.Add(1)
				for {
					old := peak.Load()
					if cur <= old || peak.CompareAndSwap(old, cur) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				inFlight.Add(-1)
				return struct{}{}, nil
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if peak.Load() > tt.wantLimit {
				t.Errorf("peak concurrency = %d, want <= %d", peak.Load(), tt.wantLimit)
			}
		})
	}
}

func TestMapBounded_ProcessesEachItemOnce(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	seen := make(map[int]int)
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	_, err := MapBounded(context.Background(), items, 4, func(_ context.Context, v int) (int, error) {
		mu.Lock()
		seen[v]++
		mu.Unlock()
		return v, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != len(items) {
		t.Fatalf("processed %d distinct items, want %d", len(seen), len(items))
	}
	for v, count := range seen {
		if count != 1 {
			t.Errorf("item %d processed %d times", v, count)
		}
	}
}

func TestMapBounded_PropagatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	got, err := MapBounded(context.Background(), []int{1, 2, 3}, 2, func(_ context.Context, v int) (int, error) {
		if v == 2 {
			return 0, boom
		}
		return v, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil results on error, got %v", got)
	}
}

func TestMapBounded_Empty(t *testing.T) {
	t.Parallel()

	got, err := MapBounded(context.Background(), nil, 4, func(_ context.Context, v int) (int, error) {
		t.Error("fn must not be called for empty input")
		return v, nil
	})
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestMapBounded_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MapBounded(ctx, []int{1, 2}, 2, func(_ context.Context, v int) (int, error) {
		return v, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
