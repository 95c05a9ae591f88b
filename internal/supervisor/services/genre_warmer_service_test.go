// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

type fakeWarmer struct {
	calls    atomic.Int32
	err      error
	deadline atomic.Bool
}

func (f *fakeWarmer) Refresh(ctx context.Context) error {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); ok {
		f.deadline.Store(true)
	}
	return f.err
}

func TestGenreWarmerService_Interface(t *testing.T) {
	var _ suture.Service = (*GenreWarmerService)(nil)
}

func TestNewGenreWarmerService_Defaults(t *testing.T) {
	t.Parallel()
	svc := NewGenreWarmerService(&fakeWarmer{}, GenreWarmerConfig{}, nopLogger())

	if svc.config.Interval != 24*time.Hour {
		t.Errorf("Interval = %v, want 24h", svc.config.Interval)
	}
	if svc.config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", svc.config.Timeout)
	}
	if svc.String() != "genre-warmer" {
		t.Errorf("String() = %q, want genre-warmer", svc.String())
	}
}

func TestGenreWarmerService_Serve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		config    GenreWarmerConfig
		err       error
		runFor    time.Duration
		wantCalls func(n int32) bool
	}{
		{
			name:      "refreshes on startup",
			config:    GenreWarmerConfig{RefreshOnStartup: true, Interval: time.Hour},
			runFor:    50 * time.Millisecond,
			wantCalls: func(n int32) bool { return n == 1 },
		},
		{
			name:      "waits for first tick without startup refresh",
			config:    GenreWarmerConfig{Interval: time.Hour},
			runFor:    50 * time.Millisecond,
			wantCalls: func(n int32) bool { return n == 0 },
		},
		{
			name:      "refreshes on interval",
			config:    GenreWarmerConfig{Interval: 10 * time.Millisecond},
			runFor:    100 * time.Millisecond,
			wantCalls: func(n int32) bool { return n >= 2 },
		},
		{
			name:      "keeps running after refresh failures",
			config:    GenreWarmerConfig{RefreshOnStartup: true, Interval: 10 * time.Millisecond},
			err:       errors.New("catalog unavailable"),
			runFor:    100 * time.Millisecond,
			wantCalls: func(n int32) bool { return n >= 2 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			warmer := &fakeWarmer{err: tt.err}
			svc := NewGenreWarmerService(warmer, tt.config, nopLogger())

			ctx, cancel := context.WithTimeout(context.Background(), tt.runFor)
			defer cancel()

			err := svc.Serve(ctx)
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
			}
			if n := warmer.calls.Load(); !tt.wantCalls(n) {
				t.Errorf("unexpected refresh count %d", n)
			}
		})
	}
}

func TestGenreWarmerService_RefreshHasDeadline(t *testing.T) {
	t.Parallel()
	warmer := &fakeWarmer{}
	svc := NewGenreWarmerService(warmer, GenreWarmerConfig{Timeout: time.Second}, nopLogger())

	if err := svc.refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !warmer.deadline.Load() {
		t.Error("refresh context should carry a deadline")
	}
}
