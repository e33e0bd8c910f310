package repository

import (
	"context"
	"testing"
	"time"

	"github.com/cyberpulse/pulse/internal/errs"
	"github.com/cyberpulse/pulse/internal/models"
)

// fakeCVESource implements CVESource with canned responses.
type fakeCVESource struct {
	searched    []models.CVEEntry
	searchErr   error
	byID        map[string]*models.CVEEntry
	byIDErr     error
	byProduct   []models.CVEEntry
	byIDCalls   int
	searchCalls int
}

func (f *fakeCVESource) Search(ctx context.Context, keyword string, severity models.Severity, limit, offset int) ([]models.CVEEntry, error) {
	f.searchCalls++
	return f.searched, f.searchErr
}

func (f *fakeCVESource) GetByID(ctx context.Context, cveID string) (*models.CVEEntry, error) {
	f.byIDCalls++
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID[cveID], nil
}

func (f *fakeCVESource) ListByProduct(ctx context.Context, cpeName string, limit int) ([]models.CVEEntry, error) {
	return f.byProduct, nil
}

func TestCVEGetByIDPrefersCache(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpsertCVEs(ctx, []models.CVEEntry{
		cve("CVE-2026-1234", 9.8, models.SeverityCritical, time.Now().UTC()),
	}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	src := &fakeCVESource{}
	repo := NewCVERepository(s, src, DefaultRetention)

	res := repo.GetByID(ctx, "CVE-2026-1234")
	if !res.IsOK() || res.Data.ID != "CVE-2026-1234" {
		t.Fatalf("get by id: %+v %v", res.Data, res.Err)
	}
	if src.byIDCalls != 0 {
		t.Errorf("cache hit must not touch the network, got %d calls", src.byIDCalls)
	}
}

func TestCVEGetByIDFetchesAndCaches(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := cve("CVE-2026-9999", 7.5, models.SeverityHigh, time.Now().UTC())
	src := &fakeCVESource{byID: map[string]*models.CVEEntry{"CVE-2026-9999": &e}}
	repo := NewCVERepository(s, src, DefaultRetention)

	res := repo.GetByID(ctx, "CVE-2026-9999")
	if !res.IsOK() {
		t.Fatalf("get by id: %v", res.Err)
	}
	cached, err := s.GetCVE(ctx, "CVE-2026-9999")
	if err != nil || cached == nil {
		t.Errorf("fetched entry not cached: %v %v", cached, err)
	}
}

func TestCVEGetByIDUnknownFails(t *testing.T) {
	s := newTestStore(t)
	src := &fakeCVESource{byID: map[string]*models.CVEEntry{}}
	repo := NewCVERepository(s, src, DefaultRetention)

	res := repo.GetByID(context.Background(), "CVE-2026-0000")
	if res.IsOK() {
		t.Fatal("expected failure for unknown id")
	}
	if !errs.IsNotFound(res.Err) {
		t.Errorf("got %v, want NotFoundError", res.Err)
	}
}

func TestCVESearchRemoteFirstCachesResults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	src := &fakeCVESource{searched: []models.CVEEntry{
		cve("CVE-2026-1111", 8.0, models.SeverityHigh, time.Now().UTC()),
	}}
	repo := NewCVERepository(s, src, DefaultRetention)

	res := repo.Search(ctx, "overflow")
	if !res.IsOK() || len(res.Data) != 1 {
		t.Fatalf("search: %+v %v", res.Data, res.Err)
	}
	cached, err := s.GetCVE(ctx, "CVE-2026-1111")
	if err != nil || cached == nil {
		t.Errorf("search results not cached: %v %v", cached, err)
	}
}

func TestCVESearchFallsBackToLocal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := cve("CVE-2026-2222", 5.0, models.SeverityMedium, time.Now().UTC())
	e.Description = "Stack overflow in the parser."
	if err := s.UpsertCVEs(ctx, []models.CVEEntry{e}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	src := &fakeCVESource{searchErr: &errs.NetworkError{Op: "nvd.search", Status: 503}}
	repo := NewCVERepository(s, src, DefaultRetention)

	res := repo.Search(ctx, "overflow")
	if !res.IsOK() {
		t.Fatalf("expected local fallback: %v", res.Err)
	}
	if len(res.Data) != 1 || res.Data[0].ID != "CVE-2026-2222" {
		t.Errorf("got %+v, want the cached entry", res.Data)
	}
}

func TestCVEGetRecentSeverityFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpsertCVEs(ctx, []models.CVEEntry{
		cve("CVE-2026-0001", 9.8, models.SeverityCritical, time.Now().UTC()),
		cve("CVE-2026-0002", 5.0, models.SeverityMedium, time.Now().UTC()),
	}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	src := &fakeCVESource{searched: []models.CVEEntry{
		cve("CVE-2026-0003", 9.1, models.SeverityCritical, time.Now().UTC()),
	}}
	repo := NewCVERepository(s, src, DefaultRetention)

	results := collect(t, repo.GetRecent(ctx, models.SeverityCritical, 10, false))
	if len(results) != 2 {
		t.Fatalf("got %d emissions, want 2", len(results))
	}
	for _, e := range results[0].Data {
		if e.Severity != models.SeverityCritical {
			t.Errorf("stale emission leaked severity %q", e.Severity)
		}
	}
}

func TestCVERefreshAndCacheEvicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	src := &fakeCVESource{searched: []models.CVEEntry{
		cve("CVE-2026-0001", 5.0, models.SeverityMedium, time.Now().UTC()),
		cve("CVE-2026-0002", 5.0, models.SeverityMedium, time.Now().UTC()),
		cve("CVE-2026-0003", 5.0, models.SeverityMedium, time.Now().UTC()),
	}}
	repo := NewCVERepository(s, src, DefaultRetention)

	if err := repo.RefreshAndCache(ctx, 2); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	n, err := repo.CachedCount(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("cached count: got %d, want 2 after truncation", n)
	}
}
