package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cyberpulse/pulse/internal/cache"
	"github.com/cyberpulse/pulse/internal/errs"
	"github.com/cyberpulse/pulse/internal/logger"
	"github.com/cyberpulse/pulse/internal/metrics"
	"github.com/cyberpulse/pulse/internal/models"
	"github.com/cyberpulse/pulse/internal/store"
	"github.com/cyberpulse/pulse/internal/utils"
)

// recentBreachWindow bounds what counts as a "recent" breach.
const recentBreachWindow = 30 * 24 * time.Hour

// BreachSource is the remote fetch capability the breach repository needs.
type BreachSource interface {
	ListAll(ctx context.Context) ([]models.Breach, error)
	ListByEmail(ctx context.Context, email string) ([]models.Breach, error)
	GetByName(ctx context.Context, name string) (*models.Breach, error)
	ListPastesByEmail(ctx context.Context, email string) ([]models.Paste, error)
}

// BreachRepository reconciles cached breach data with the HIBP-style API.
// Pwned-check results go through the short-TTL result cache to keep repeat
// checks off the rate-limited account endpoint.
type BreachRepository struct {
	store      *store.Store
	source     BreachSource
	results    cache.Cache
	resultsTTL time.Duration
}

func NewBreachRepository(s *store.Store, source BreachSource, results cache.Cache, resultsTTL time.Duration) *BreachRepository {
	return &BreachRepository{store: s, source: source, results: results, resultsTTL: resultsTTL}
}

// GetAllBreaches streams cached breaches first, then the full fresh set.
func (r *BreachRepository) GetAllBreaches(ctx context.Context, forceRefresh bool) <-chan Result[[]models.Breach] {
	return streamFeed(ctx, forceRefresh, feedFuncs[models.Breach]{
		entity: "breach",
		queryCache: func(ctx context.Context) ([]models.Breach, error) {
			breaches, err := r.store.ListBreaches(ctx)
			if err != nil {
				return nil, &errs.StoreError{Op: "list breaches", Err: err}
			}
			return breaches, nil
		},
		fetch: func(ctx context.Context) ([]models.Breach, error) {
			return r.source.ListAll(ctx)
		},
		save: func(ctx context.Context, breaches []models.Breach) error {
			if err := r.store.UpsertBreaches(ctx, breaches); err != nil {
				return &errs.StoreError{Op: "upsert breaches", Err: err}
			}
			return nil
		},
	})
}

// GetRecentBreaches streams breaches from the last thirty days, cache first.
func (r *BreachRepository) GetRecentBreaches(ctx context.Context) <-chan Result[[]models.Breach] {
	since := time.Now().Add(-recentBreachWindow)
	return streamFeed(ctx, false, feedFuncs[models.Breach]{
		entity: "breach",
		queryCache: func(ctx context.Context) ([]models.Breach, error) {
			breaches, err := r.store.RecentBreaches(ctx, since)
			if err != nil {
				return nil, &errs.StoreError{Op: "recent breaches", Err: err}
			}
			return breaches, nil
		},
		fetch: func(ctx context.Context) ([]models.Breach, error) {
			all, err := r.source.ListAll(ctx)
			if err != nil {
				return nil, err
			}
			recent := make([]models.Breach, 0, len(all))
			for _, b := range all {
				if b.BreachDate.After(since) {
					recent = append(recent, b)
				}
			}
			return recent, nil
		},
		save: func(ctx context.Context, breaches []models.Breach) error {
			if err := r.store.UpsertBreaches(ctx, breaches); err != nil {
				return &errs.StoreError{Op: "upsert breaches", Err: err}
			}
			return nil
		},
	})
}

// Search matches cached breaches by name or domain.
func (r *BreachRepository) Search(ctx context.Context, query string) Result[[]models.Breach] {
	breaches, err := r.store.SearchBreaches(ctx, query)
	if err != nil {
		return Fail[[]models.Breach](&errs.StoreError{Op: "search breaches", Err: err})
	}
	return Ok(breaches)
}

// CheckEmailPwned looks up the breaches and pastes a given account appears
// in. A paste lookup failure is tolerated; a breach lookup failure fails the
// check.
func (r *BreachRepository) CheckEmailPwned(ctx context.Context, email string) Result[models.PwnedCheckResult] {
	cacheKey := "pwned:" + utils.Hash(strings.ToLower(email))
	if cached, hit := r.cachedCheck(ctx, cacheKey); hit {
		return Ok(cached)
	}

	breaches, err := r.source.ListByEmail(ctx, email)
	if err != nil {
		return Fail[models.PwnedCheckResult](err)
	}
	pastes, err := r.source.ListPastesByEmail(ctx, email)
	if err != nil {
		logger.Debug().Err(err).Msg("paste lookup failed, continuing without pastes")
		pastes = nil
	}
	check := models.PwnedCheckResult{
		Email:     email,
		IsPwned:   len(breaches) > 0,
		Breaches:  breaches,
		Pastes:    pastes,
		CheckedAt: time.Now().UTC(),
	}
	r.storeCheck(ctx, cacheKey, check)
	return Ok(check)
}

func (r *BreachRepository) cachedCheck(ctx context.Context, key string) (models.PwnedCheckResult, bool) {
	if r.results == nil {
		return models.PwnedCheckResult{}, false
	}
	data, hit, err := r.results.Get(ctx, key)
	if err != nil || !hit {
		metrics.ResultCacheLookups.WithLabelValues("pwned", "miss").Inc()
		return models.PwnedCheckResult{}, false
	}
	var check models.PwnedCheckResult
	if err := json.Unmarshal(data, &check); err != nil {
		metrics.ResultCacheLookups.WithLabelValues("pwned", "miss").Inc()
		return models.PwnedCheckResult{}, false
	}
	metrics.ResultCacheLookups.WithLabelValues("pwned", "hit").Inc()
	return check, true
}

func (r *BreachRepository) storeCheck(ctx context.Context, key string, check models.PwnedCheckResult) {
	if r.results == nil {
		return
	}
	data, err := json.Marshal(check)
	if err != nil {
		return
	}
	if err := r.results.Set(ctx, key, data, r.resultsTTL); err != nil {
		logger.Debug().Err(err).Msg("failed to cache pwned-check result")
	}
}

// GetByName returns breach details, network first with a silent fallback to
// the cache. Fails with NotFoundError when neither side knows the name.
func (r *BreachRepository) GetByName(ctx context.Context, name string) Result[*models.Breach] {
	fetched, err := r.source.GetByName(ctx, name)
	if err == nil && fetched != nil {
		if err := r.store.UpsertBreaches(ctx, []models.Breach{*fetched}); err != nil {
			return Fail[*models.Breach](&errs.StoreError{Op: "upsert breach", Err: err})
		}
		return Ok(fetched)
	}
	cached, cerr := r.store.GetBreach(ctx, name)
	if cerr != nil {
		return Fail[*models.Breach](&errs.StoreError{Op: "get breach", Err: cerr})
	}
	if cached == nil {
		if err != nil {
			return Fail[*models.Breach](err)
		}
		return Fail[*models.Breach](&errs.NotFoundError{Kind: "breach", ID: name})
	}
	return Ok(cached)
}

// CachedCount returns how many breaches are cached locally.
func (r *BreachRepository) CachedCount(ctx context.Context) (int, error) {
	n, err := r.store.CountBreaches(ctx)
	if err != nil {
		return 0, &errs.StoreError{Op: "count breaches", Err: err}
	}
	return n, nil
}
