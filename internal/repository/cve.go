package repository

import (
	"context"

	"github.com/cyberpulse/pulse/internal/errs"
	"github.com/cyberpulse/pulse/internal/logger"
	"github.com/cyberpulse/pulse/internal/metrics"
	"github.com/cyberpulse/pulse/internal/models"
	"github.com/cyberpulse/pulse/internal/store"
)

// CVESource is the remote fetch capability the CVE repository needs.
type CVESource interface {
	Search(ctx context.Context, keyword string, severity models.Severity, limit, offset int) ([]models.CVEEntry, error)
	GetByID(ctx context.Context, cveID string) (*models.CVEEntry, error)
	ListByProduct(ctx context.Context, cpeName string, limit int) ([]models.CVEEntry, error)
}

// CVERepository reconciles cached CVE entries with the NVD-style API.
type CVERepository struct {
	store     *store.Store
	source    CVESource
	retention int
}

func NewCVERepository(s *store.Store, source CVESource, retention int) *CVERepository {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &CVERepository{store: s, source: source, retention: retention}
}

// GetRecent streams recent CVEs, cache first, optionally filtered by
// severity.
func (r *CVERepository) GetRecent(ctx context.Context, severity models.Severity, limit int, forceRefresh bool) <-chan Result[[]models.CVEEntry] {
	return streamFeed(ctx, forceRefresh, feedFuncs[models.CVEEntry]{
		entity: "cve",
		queryCache: func(ctx context.Context) ([]models.CVEEntry, error) {
			entries, err := r.store.ListCVEs(ctx, severity, limit)
			if err != nil {
				return nil, &errs.StoreError{Op: "list cves", Err: err}
			}
			return entries, nil
		},
		fetch: func(ctx context.Context) ([]models.CVEEntry, error) {
			return r.source.Search(ctx, "", severity, limit, 0)
		},
		save: func(ctx context.Context, entries []models.CVEEntry) error {
			if err := r.store.UpsertCVEs(ctx, entries); err != nil {
				return &errs.StoreError{Op: "upsert cves", Err: err}
			}
			return nil
		},
	})
}

// GetByID returns a single entry, cache first, then the network. A fetched
// entry is cached before it is returned.
func (r *CVERepository) GetByID(ctx context.Context, cveID string) Result[*models.CVEEntry] {
	cached, err := r.store.GetCVE(ctx, cveID)
	if err != nil {
		return Fail[*models.CVEEntry](&errs.StoreError{Op: "get cve", Err: err})
	}
	if cached != nil {
		return Ok(cached)
	}
	fetched, err := r.source.GetByID(ctx, cveID)
	if err != nil {
		return Fail[*models.CVEEntry](err)
	}
	if fetched == nil {
		return Fail[*models.CVEEntry](&errs.NotFoundError{Kind: "cve", ID: cveID})
	}
	if err := r.store.UpsertCVEs(ctx, []models.CVEEntry{*fetched}); err != nil {
		return Fail[*models.CVEEntry](&errs.StoreError{Op: "upsert cve", Err: err})
	}
	return Ok(fetched)
}

// Search queries the remote by keyword and falls back to the local substring
// search when the network fails.
func (r *CVERepository) Search(ctx context.Context, query string) Result[[]models.CVEEntry] {
	fetched, err := r.source.Search(ctx, query, "", defaultPageSize, 0)
	if err == nil {
		if serr := r.store.UpsertCVEs(ctx, fetched); serr != nil {
			return Fail[[]models.CVEEntry](&errs.StoreError{Op: "upsert cves", Err: serr})
		}
		return Ok(fetched)
	}
	logger.Debug().Err(err).Msg("remote cve search failed, falling back to cache")
	local, lerr := r.store.SearchCVEs(ctx, query)
	if lerr != nil {
		return Fail[[]models.CVEEntry](&errs.StoreError{Op: "search cves", Err: lerr})
	}
	return Ok(local)
}

// ListByProduct matches cached entries by affected product name.
func (r *CVERepository) ListByProduct(ctx context.Context, product string) Result[[]models.CVEEntry] {
	entries, err := r.store.CVEsByProduct(ctx, product)
	if err != nil {
		return Fail[[]models.CVEEntry](&errs.StoreError{Op: "cves by product", Err: err})
	}
	return Ok(entries)
}

// GetCriticalExploited returns cached critical entries with a known exploit.
func (r *CVERepository) GetCriticalExploited(ctx context.Context) Result[[]models.CVEEntry] {
	entries, err := r.store.CriticalExploitedCVEs(ctx)
	if err != nil {
		return Fail[[]models.CVEEntry](&errs.StoreError{Op: "critical exploited cves", Err: err})
	}
	return Ok(entries)
}

// CachedCount returns how many entries are cached locally.
func (r *CVERepository) CachedCount(ctx context.Context) (int, error) {
	n, err := r.store.CountCVEs(ctx)
	if err != nil {
		return 0, &errs.StoreError{Op: "count cves", Err: err}
	}
	return n, nil
}

// RefreshAndCache fetches up to limit fresh entries, caches them, then
// evicts entries beyond the retention cap by cache-insertion recency.
func (r *CVERepository) RefreshAndCache(ctx context.Context, limit int) error {
	entries, err := r.source.Search(ctx, "", "", limit, 0)
	if err != nil {
		metrics.RemoteFetches.WithLabelValues("cve", "error").Inc()
		return err
	}
	metrics.RemoteFetches.WithLabelValues("cve", "ok").Inc()
	if len(entries) > limit {
		entries = entries[:limit]
	}
	if err := r.store.UpsertCVEs(ctx, entries); err != nil {
		return &errs.StoreError{Op: "upsert cves", Err: err}
	}
	evicted, err := r.store.EvictCVEs(ctx, r.retention)
	if err != nil {
		return &errs.StoreError{Op: "evict cves", Err: err}
	}
	metrics.Evictions.WithLabelValues("cve").Add(float64(evicted))
	return nil
}
