// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// histogramCount returns the number of observations in a histogram.
func histogramCount(t *testing.T, h prometheus.Metric) uint64 {
	t.Helper()
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordCatalogRequest(t *testing.T) {
	before := testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues("test_detail", "error"))
	RecordCatalogRequest("test_detail", 10*time.Millisecond, errors.New("boom"))
	after := testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues("test_detail", "error"))

	if after-before != 1 {
		t.Errorf("error counter moved by %f, want 1", after-before)
	}
	if got := testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues("test_detail", "success")); got != 0 {
		t.Errorf("success counter = %f, want 0", got)
	}
}

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("degraded"))
	observed := histogramCount(t, RecommendationDuration)
	RecordRecommendation("degraded", time.Millisecond)
	if got := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("degraded")) - before; got != 1 {
		t.Errorf("degraded counter moved by %f, want 1", got)
	}
	if got := histogramCount(t, RecommendationDuration) - observed; got != 1 {
		t.Errorf("duration observations moved by %d, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active = %f, want %f", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %f, want %f", got, before)
	}
}

func TestRecordStoreQuery(t *testing.T) {
	RecordStoreQuery("test", "watchlist", time.Millisecond, nil)
	if got := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("test", "watchlist")); got != 0 {
		t.Errorf("errors = %f, want 0", got)
	}
	RecordStoreQuery("test", "watchlist", time.Millisecond, errors.New("down"))
	if got := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("test", "watchlist")); got != 1 {
		t.Errorf("errors = %f, want 1", got)
	}
	duration := StoreQueryDuration.WithLabelValues("test", "watchlist").(prometheus.Histogram)
	if got := histogramCount(t, duration); got != 2 {
		t.Errorf("duration observations = %d, want 2", got)
	}
}
