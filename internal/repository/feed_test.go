package repository

import (
	"context"
	"testing"
	"time"

	"github.com/cyberpulse/pulse/internal/errs"
	"github.com/cyberpulse/pulse/internal/models"
)

// fakeNewsSource implements NewsSource with canned responses.
type fakeNewsSource struct {
	latest      []models.Article
	latestErr   error
	searched    []models.Article
	searchErr   error
	byID        map[string]*models.Article
	byIDErr     error
	latestCalls int
	searchCalls int
}

func (f *fakeNewsSource) ListLatest(ctx context.Context, page, limit int) ([]models.Article, error) {
	f.latestCalls++
	if err := ctx.Err(); err != nil {
		return nil, &errs.NetworkError{Op: "news.listLatest", Err: err}
	}
	return f.latest, f.latestErr
}

func (f *fakeNewsSource) ListByCategory(ctx context.Context, category models.Category, page, limit int) ([]models.Article, error) {
	f.latestCalls++
	var out []models.Article
	for _, a := range f.latest {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out, f.latestErr
}

func (f *fakeNewsSource) Search(ctx context.Context, query string, page, limit int) ([]models.Article, error) {
	f.searchCalls++
	return f.searched, f.searchErr
}

func (f *fakeNewsSource) GetByID(ctx context.Context, id string) (*models.Article, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID[id], nil
}

func collect[T any](t *testing.T, stream <-chan Result[[]T]) []Result[[]T] {
	t.Helper()
	var results []Result[[]T]
	for r := range stream {
		results = append(results, r)
	}
	return results
}

func TestGetFeedEmitsCacheThenFresh(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stale := article("old", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := s.UpsertArticles(ctx, []models.Article{stale}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	fresh := article("new", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	src := &fakeNewsSource{latest: []models.Article{fresh}}
	repo := NewNewsRepository(s, src, DefaultRetention)

	results := collect(t, repo.GetFeed(ctx, "", false))
	if len(results) != 2 {
		t.Fatalf("got %d emissions, want 2 (cache then fresh)", len(results))
	}
	if !results[0].IsOK() || len(results[0].Data) != 1 || results[0].Data[0].ID != "old" {
		t.Errorf("first emission should be the cached set, got %+v", results[0])
	}
	if !results[1].IsOK() || len(results[1].Data) != 1 || results[1].Data[0].ID != "new" {
		t.Errorf("second emission should be the fresh set, got %+v", results[1])
	}

	// The fresh set must be cached before it is emitted.
	got, err := s.GetArticle(ctx, "new")
	if err != nil || got == nil {
		t.Errorf("fresh article not cached: %v %v", got, err)
	}
}

func TestGetFeedForceRefreshSkipsCacheEmission(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpsertArticles(ctx, []models.Article{article("old", time.Now().UTC())}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	src := &fakeNewsSource{latest: []models.Article{article("new", time.Now().UTC())}}
	repo := NewNewsRepository(s, src, DefaultRetention)

	results := collect(t, repo.GetFeed(ctx, "", true))
	if len(results) != 1 {
		t.Fatalf("got %d emissions, want 1 on force refresh", len(results))
	}
	if !results[0].IsOK() || results[0].Data[0].ID != "new" {
		t.Errorf("force refresh should emit only the fresh set, got %+v", results[0])
	}
}

func TestGetFeedEmptyCacheSkipsStaleEmission(t *testing.T) {
	s := newTestStore(t)
	src := &fakeNewsSource{latest: []models.Article{article("a1", time.Now().UTC())}}
	repo := NewNewsRepository(s, src, DefaultRetention)

	results := collect(t, repo.GetFeed(context.Background(), "", false))
	if len(results) != 1 {
		t.Fatalf("got %d emissions, want 1 when the cache is empty", len(results))
	}
	if !results[0].IsOK() || results[0].Data[0].ID != "a1" {
		t.Errorf("unexpected emission: %+v", results[0])
	}
}

func TestGetFeedFallsBackToCacheOnNetworkError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpsertArticles(ctx, []models.Article{article("cached", time.Now().UTC())}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	src := &fakeNewsSource{latestErr: &errs.NetworkError{Op: "news.listLatest", Status: 503}}
	repo := NewNewsRepository(s, src, DefaultRetention)

	results := collect(t, repo.GetFeed(ctx, "", false))
	last := results[len(results)-1]
	if !last.IsOK() {
		t.Fatalf("expected cache fallback, got error: %v", last.Err)
	}
	if len(last.Data) != 1 || last.Data[0].ID != "cached" {
		t.Errorf("fallback emission: got %+v", last.Data)
	}
}

func TestGetFeedFailsWhenCacheEmptyAndNetworkDown(t *testing.T) {
	s := newTestStore(t)
	netErr := &errs.NetworkError{Op: "news.listLatest", Status: 503}
	src := &fakeNewsSource{latestErr: netErr}
	repo := NewNewsRepository(s, src, DefaultRetention)

	results := collect(t, repo.GetFeed(context.Background(), "", false))
	if len(results) != 1 {
		t.Fatalf("got %d emissions, want 1 failure", len(results))
	}
	if results[0].IsOK() {
		t.Fatal("expected failure when cache is empty and network is down")
	}
	if !errs.IsRemote(results[0].Err) {
		t.Errorf("error should be the remote failure, got %v", results[0].Err)
	}
}

func TestGetFeedCancelledContext(t *testing.T) {
	s := newTestStore(t)
	src := &fakeNewsSource{latest: []models.Article{article("a1", time.Now().UTC())}}
	repo := NewNewsRepository(s, src, DefaultRetention)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := collect(t, repo.GetFeed(ctx, "", false))
	for _, r := range results {
		if !r.IsOK() {
			t.Errorf("cancellation must not surface as a feed error, got %v", r.Err)
		}
	}
}

func TestCollectFeedReturnsLastEmission(t *testing.T) {
	ch := make(chan Result[[]int], 2)
	ch <- Ok([]int{1})
	ch <- Ok([]int{1, 2})
	close(ch)

	got := CollectFeed(ch)
	if !got.IsOK() || len(got.Data) != 2 {
		t.Errorf("CollectFeed: got %+v, want the final emission", got)
	}
}

func TestMergeByIDRemoteWins(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	remote := []models.Article{
		{ID: "dup", Title: "remote variant", PublishedAt: now.Add(-time.Hour)},
		{ID: "r1", PublishedAt: now},
	}
	local := []models.Article{
		{ID: "dup", Title: "local variant", PublishedAt: now.Add(-time.Hour)},
		{ID: "l1", PublishedAt: now.Add(-2 * time.Hour)},
	}

	merged := mergeByID(remote, local,
		func(a models.Article) string { return a.ID },
		func(a models.Article) time.Time { return a.PublishedAt })

	if len(merged) != 3 {
		t.Fatalf("got %d items, want 3 after dedup", len(merged))
	}
	if merged[0].ID != "r1" {
		t.Errorf("ordering: got %s first, want r1 (most recent)", merged[0].ID)
	}
	for _, a := range merged {
		if a.ID == "dup" && a.Title != "remote variant" {
			t.Errorf("duplicate id kept the local variant: %q", a.Title)
		}
	}
}
