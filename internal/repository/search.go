package repository

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/cyberpulse/pulse/internal/cache"
	"github.com/cyberpulse/pulse/internal/logger"
	"github.com/cyberpulse/pulse/internal/metrics"
	"github.com/cyberpulse/pulse/internal/models"
	"github.com/cyberpulse/pulse/internal/store"
	"github.com/cyberpulse/pulse/internal/utils"
)

// branchLimit caps each external omni-search branch to keep result size and
// external rate-limit pressure bounded.
const branchLimit = 3

// RepoSearcher is the code-repository search branch.
type RepoSearcher interface {
	SearchRepos(ctx context.Context, query string, pageSize int) ([]models.GitHubRepo, error)
}

// PostSearcher is the community-discussion search branch.
type PostSearcher interface {
	SearchPosts(ctx context.Context, query string, limit int) ([]models.RedditPost, error)
}

// SearchRepository fans a single query out across the local store, GitHub,
// Reddit and the static glossary, concurrently, and joins the results into
// one bundle. Each branch is failure-isolated: an error resolves that branch
// to empty, never the aggregate.
type SearchRepository struct {
	store      *store.Store
	repos      RepoSearcher
	posts      PostSearcher
	results    cache.Cache
	resultsTTL time.Duration
}

func NewSearchRepository(s *store.Store, repos RepoSearcher, posts PostSearcher, results cache.Cache, resultsTTL time.Duration) *SearchRepository {
	return &SearchRepository{
		store:      s,
		repos:      repos,
		posts:      posts,
		results:    results,
		resultsTTL: resultsTTL,
	}
}

// OmniSearch runs all four branches and waits for every one to complete or
// fail to empty before returning. An empty query short-circuits to an empty
// bundle without touching the network or the store.
func (r *SearchRepository) OmniSearch(ctx context.Context, query string) models.OmniSearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.OmniSearchResult{}
	}

	cacheKey := "omni:" + utils.Hash(query)
	if cached, hit := r.cachedBundle(ctx, cacheKey); hit {
		return cached
	}

	var (
		wg     sync.WaitGroup
		result models.OmniSearchResult
	)
	wg.Add(4)

	go runBranch(&wg, "local", func() error {
		articles, err := r.store.SearchArticles(ctx, query)
		if err != nil {
			return err
		}
		result.LocalNews = articles
		return nil
	})

	go runBranch(&wg, "github", func() error {
		// topic filter keeps results on-domain
		repos, err := r.repos.SearchRepos(ctx, "topic:cybersecurity "+query, branchLimit)
		if err != nil {
			return err
		}
		if len(repos) > branchLimit {
			repos = repos[:branchLimit]
		}
		result.GitHubRepos = repos
		return nil
	})

	go runBranch(&wg, "reddit", func() error {
		posts, err := r.posts.SearchPosts(ctx, "subreddit:netsec OR subreddit:cybersecurity "+query, branchLimit)
		if err != nil {
			return err
		}
		if len(posts) > branchLimit {
			posts = posts[:branchLimit]
		}
		result.RedditPosts = posts
		return nil
	})

	go runBranch(&wg, "definitions", func() error {
		result.Definitions = lookupDefinitions(query)
		return nil
	})

	wg.Wait()

	// empty slices rather than nulls for failed/empty branches
	if result.Definitions == nil {
		result.Definitions = []models.Definition{}
	}
	if result.LocalNews == nil {
		result.LocalNews = []models.Article{}
	}
	if result.GitHubRepos == nil {
		result.GitHubRepos = []models.GitHubRepo{}
	}
	if result.RedditPosts == nil {
		result.RedditPosts = []models.RedditPost{}
	}

	r.storeBundle(ctx, cacheKey, result)
	return result
}

// runBranch executes one branch, isolating both errors and panics so a
// single failing source never fails the aggregate.
func runBranch(wg *sync.WaitGroup, name string, fn func() error) {
	defer wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			metrics.OmniBranchFailures.WithLabelValues(name).Inc()
			logger.Error().Interface("panic", rec).Str("branch", name).Msg("omni-search branch panicked")
		}
	}()
	if err := fn(); err != nil {
		metrics.OmniBranchFailures.WithLabelValues(name).Inc()
		logger.Debug().Err(err).Str("branch", name).Msg("omni-search branch failed")
	}
}

func (r *SearchRepository) cachedBundle(ctx context.Context, key string) (models.OmniSearchResult, bool) {
	if r.results == nil {
		return models.OmniSearchResult{}, false
	}
	data, hit, err := r.results.Get(ctx, key)
	if err != nil || !hit {
		metrics.ResultCacheLookups.WithLabelValues("omni", "miss").Inc()
		return models.OmniSearchResult{}, false
	}
	var bundle models.OmniSearchResult
	if err := json.Unmarshal(data, &bundle); err != nil {
		metrics.ResultCacheLookups.WithLabelValues("omni", "miss").Inc()
		return models.OmniSearchResult{}, false
	}
	metrics.ResultCacheLookups.WithLabelValues("omni", "hit").Inc()
	return bundle, true
}

func (r *SearchRepository) storeBundle(ctx context.Context, key string, bundle models.OmniSearchResult) {
	if r.results == nil {
		return
	}
	data, err := json.Marshal(bundle)
	if err != nil {
		return
	}
	if err := r.results.Set(ctx, key, data, r.resultsTTL); err != nil {
		logger.Debug().Err(err).Msg("failed to cache omni-search bundle")
	}
}
