// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package recommend_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reconhq/recon/internal/models"
	"github.com/reconhq/recon/internal/recommend"
	"github.com/reconhq/recon/internal/recommend/reranking"
)

// mockCatalog implements recommend.Catalog for testing.
type mockCatalog struct {
	details   map[int]models.CatalogItem
	recs      map[int][]models.CatalogItem
	detailErr error
	recsErr   error
}

func (m *mockCatalog) GetDetail(_ context.Context, id int) (models.CatalogItem, error) {
	if m.detailErr != nil {
		return models.CatalogItem{}, m.detailErr
	}
	item, ok := m.details[id]
	if !ok {
		return models.CatalogItem{}, errors.New("not found")
	}
	return item, nil
}

func (m *mockCatalog) GetRecommendations(_ context.Context, id int) ([]models.CatalogItem, error) {
	if m.recsErr != nil {
		return nil, m.recsErr
	}
	return m.recs[id], nil
}

// staticTaxonomy implements recommend.TaxonomyResolver.
type staticTaxonomy models.GenreTaxonomy

func (s staticTaxonomy) Resolve(context.Context) models.GenreTaxonomy {
	return models.GenreTaxonomy(s)
}

// mockStore implements recommend.InteractionStore.
type mockStore struct {
	mu      sync.Mutex
	records []models.InteractionRecord
	err     error
	filters []models.InteractionFilter
}

func (m *mockStore) ListInteractions(_ context.Context, _ string, filter models.InteractionFilter) ([]models.InteractionRecord, error) {
	m.mu.Lock()
	m.filters = append(m.filters, filter)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	var out []models.InteractionRecord
	for _, r := range m.records {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

var taxonomy = staticTaxonomy{18: "Drama", 80: "Crime", 35: "Comedy", 53: "Thriller", 99: "Documentary"}

// seedCatalog returns seed 550 with ten candidates: Comedy first, eight
// documentaries, and a Drama/Thriller movie last. Genres arrive as ids.
func seedCatalog() *mockCatalog {
	recs := []models.CatalogItem{{ID: 1000, Title: "Comedy", GenreIDs: []int{35}}}
	for i := 1; i <= 8; i++ {
		recs = append(recs, models.CatalogItem{ID: 1000 + i, Title: "Doc", GenreIDs: []int{99}})
	}
	recs = append(recs, models.CatalogItem{ID: 1009, Title: "Drama Thriller", GenreIDs: []int{18, 53}})

	return &mockCatalog{
		details: map[int]models.CatalogItem{
			550: {ID: 550, Title: "Fight Club", Genres: []string{"Drama"}},
			680: {ID: 680, Title: "Pulp Fiction", Genres: []string{"Drama", "Crime"}},
		},
		recs: map[int][]models.CatalogItem{550: recs},
	}
}

func newEngine(t *testing.T, cat recommend.Catalog, store recommend.InteractionStore) *recommend.Engine {
	t.Helper()
	cfg := recommend.DefaultConfig()
	e, err := recommend.NewEngine(cfg, cat, taxonomy, store, reranking.NewPersonalized(cfg), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func resultIDs(results []models.RankedCandidate) []int {
	ids := make([]int, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	cfg := recommend.DefaultConfig()
	if _, err := recommend.NewEngine(cfg, seedCatalog(), taxonomy, nil, nil, zerolog.Nop()); !errors.Is(err, recommend.ErrNoReranker) {
		t.Errorf("expected ErrNoReranker, got %v", err)
	}

	bad := cfg
	bad.ResultLimit = 0
	if _, err := recommend.NewEngine(bad, seedCatalog(), taxonomy, nil, reranking.NewPersonalized(bad), zerolog.Nop()); err == nil {
		t.Error("expected invalid config error")
	}
}

func TestEngine_AnonymousPassthrough(t *testing.T) {
	t.Parallel()

	cat := seedCatalog()
	store := &mockStore{}
	res, err := newEngine(t, cat, store).Recommend(context.Background(), recommend.Request{SeedID: 550})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if res.Outcome != recommend.OutcomeUnpersonalized {
		t.Errorf("Outcome = %v", res.Outcome)
	}
	if res.Summary != nil || res.Warning != "" {
		t.Errorf("anonymous result must not carry summary or warning: %+v", res)
	}
	want := make([]int, 0, 10)
	for _, c := range cat.recs[550] {
		want = append(want, c.ID)
	}
	if got := resultIDs(res.Results); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if got := res.Results[9].Genres; !reflect.DeepEqual(got, []string{"Drama", "Thriller"}) {
		t.Errorf("genres not annotated: %v", got)
	}
	if len(store.filters) != 0 {
		t.Error("store must not be queried for anonymous callers")
	}
}

func TestEngine_StoreFailureDegrades(t *testing.T) {
	t.Parallel()

	res, err := newEngine(t, seedCatalog(), &mockStore{err: errors.New("connection refused")}).
		Recommend(context.Background(), recommend.Request{SeedID: 550, UserID: "user-1"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if res.Outcome != recommend.OutcomeDegraded {
		t.Errorf("Outcome = %v", res.Outcome)
	}
	if res.Warning != recommend.WarningPersonalizationUnavailable {
		t.Errorf("Warning = %q", res.Warning)
	}
	if len(res.Results) != 10 || res.Results[0].ID != 1000 {
		t.Errorf("expected base list, got %v", resultIDs(res.Results))
	}
}

func TestEngine_NilStoreDegrades(t *testing.T) {
	t.Parallel()

	res, err := newEngine(t, seedCatalog(), nil).
		Recommend(context.Background(), recommend.Request{SeedID: 550, UserID: "user-1"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res.Outcome != recommend.OutcomeDegraded {
		t.Errorf("Outcome = %v", res.Outcome)
	}
}

func TestEngine_EmptyHistoryPassthrough(t *testing.T) {
	t.Parallel()

	res, err := newEngine(t, seedCatalog(), &mockStore{}).
		Recommend(context.Background(), recommend.Request{SeedID: 550, UserID: "user-1"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res.Outcome != recommend.OutcomeUnpersonalized || res.Summary != nil {
		t.Errorf("expected unpersonalized result, got %+v", res)
	}
	if len(res.Results) != 10 {
		t.Errorf("len = %d, want 10", len(res.Results))
	}
}

func TestEngine_Personalized(t *testing.T) {
	t.Parallel()

	store := &mockStore{records: []models.InteractionRecord{
		{ItemID: 680, Title: "Pulp Fiction", Status: models.StatusCompleted},
		{ItemID: 1003, Title: "Tracked doc", Status: models.StatusWatchlist},
	}}
	// 1003 has no catalog detail: enrichment degrades that row.

	res, err := newEngine(t, seedCatalog(), store).
		Recommend(context.Background(), recommend.Request{SeedID: 550, UserID: "user-1"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if res.Outcome != recommend.OutcomePersonalized {
		t.Fatalf("Outcome = %v", res.Outcome)
	}
	if len(res.Results) != 8 {
		t.Errorf("len = %d, want 8", len(res.Results))
	}
	for _, r := range res.Results {
		if r.ID == 1003 {
			t.Error("tracked item 1003 must be excluded")
		}
		if r.SimilarityScore <= 0 {
			t.Errorf("item %d has no score", r.ID)
		}
	}
	if res.Results[0].ID != 1000 {
		t.Errorf("top result = %d, want 1000", res.Results[0].ID)
	}

	want := &models.PersonalizationSummary{
		TopGenres:       []string{"Drama", "Crime"},
		RecentCount:     1,
		CompletedCount:  1,
		QuizWeight:      0.91,
		CompletedWeight: 0.09,
	}
	if !reflect.DeepEqual(res.Summary, want) {
		t.Errorf("Summary = %+v, want %+v", res.Summary, want)
	}
	if res.Seed.ID != 550 || res.Seed.Title != "Fight Club" {
		t.Errorf("Seed = %+v", res.Seed)
	}
}

func TestEngine_QueriesHistoryWithLimits(t *testing.T) {
	t.Parallel()

	store := &mockStore{records: []models.InteractionRecord{
		{ItemID: 680, Status: models.StatusCompleted},
	}}
	if _, err := newEngine(t, seedCatalog(), store).
		Recommend(context.Background(), recommend.Request{SeedID: 550, UserID: "user-1"}); err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	seen := make(map[models.InteractionFilter]bool)
	for _, f := range store.filters {
		seen[f] = true
	}
	for _, f := range []models.InteractionFilter{
		{Status: models.StatusWatchlist, Limit: 25},
		{Status: models.StatusCompleted, Limit: 25},
		{},
	} {
		if !seen[f] {
			t.Errorf("missing store query %+v (got %+v)", f, store.filters)
		}
	}
}

func TestEngine_SeedFailures(t *testing.T) {
	t.Parallel()

	upstream := errors.New("upstream 503")

	tests := []struct {
		name   string
		mutate func(*mockCatalog)
		wantOp string
	}{
		{"detail fails", func(c *mockCatalog) { c.detailErr = upstream }, "get detail"},
		{"recommendations fail", func(c *mockCatalog) { c.recsErr = upstream }, "get recommendations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cat := seedCatalog()
			tt.mutate(cat)

			_, err := newEngine(t, cat, &mockStore{}).Recommend(context.Background(), recommend.Request{SeedID: 550, UserID: "u"})
			var seedErr *recommend.SeedFetchError
			if !errors.As(err, &seedErr) {
				t.Fatalf("expected SeedFetchError, got %v", err)
			}
			if seedErr.Op != tt.wantOp {
				t.Errorf("Op = %q, want %q", seedErr.Op, tt.wantOp)
			}
			if !errors.Is(err, upstream) {
				t.Error("SeedFetchError must unwrap to the upstream error")
			}
		})
	}
}

func TestResult_Response(t *testing.T) {
	t.Parallel()

	res := &recommend.Result{Seed: models.CatalogItem{ID: 550, Title: "Fight Club"}}
	resp := res.Response()
	if resp.Results == nil {
		t.Error("results must never be nil")
	}
	if resp.OriginalMovie == nil || resp.OriginalMovie.ID != 550 || resp.OriginalMovie.Genres == nil {
		t.Errorf("OriginalMovie = %+v", resp.OriginalMovie)
	}
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	for o, want := range map[recommend.Outcome]string{
		recommend.OutcomeUnpersonalized: "unpersonalized",
		recommend.OutcomeDegraded:       "degraded",
		recommend.OutcomePersonalized:   "personalized",
		recommend.Outcome(42):           "unknown",
	} {
		if got := o.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(o), got, want)
		}
	}
}
