package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cyberpulse/pulse/internal/errs"
	"github.com/cyberpulse/pulse/internal/metrics"
	"github.com/cyberpulse/pulse/internal/models"
	"github.com/cyberpulse/pulse/internal/store"
)

// DefaultRetention is how many unsaved records the cache keeps per entity
// kind after a refresh. Saved records never count toward it.
const DefaultRetention = 50

const defaultPageSize = 20

// NewsSource is the remote fetch capability the news repository needs.
type NewsSource interface {
	ListLatest(ctx context.Context, page, limit int) ([]models.Article, error)
	ListByCategory(ctx context.Context, category models.Category, page, limit int) ([]models.Article, error)
	Search(ctx context.Context, query string, page, limit int) ([]models.Article, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
}

// NewsRepository reconciles cached articles with the remote news API.
type NewsRepository struct {
	store     *store.Store
	source    NewsSource
	retention int
}

func NewNewsRepository(s *store.Store, source NewsSource, retention int) *NewsRepository {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &NewsRepository{store: s, source: source, retention: retention}
}

// GetFeed streams the news feed: cached articles first (unless forceRefresh),
// then the fresh set once the network answers. See streamFeed for the
// protocol.
func (r *NewsRepository) GetFeed(ctx context.Context, category models.Category, forceRefresh bool) <-chan Result[[]models.Article] {
	return streamFeed(ctx, forceRefresh, feedFuncs[models.Article]{
		entity: "news",
		queryCache: func(ctx context.Context) ([]models.Article, error) {
			articles, err := r.store.ListArticles(ctx, category)
			if err != nil {
				return nil, &errs.StoreError{Op: "list articles", Err: err}
			}
			return articles, nil
		},
		fetch: func(ctx context.Context) ([]models.Article, error) {
			if category != "" {
				return r.source.ListByCategory(ctx, category, 1, defaultPageSize)
			}
			return r.source.ListLatest(ctx, 1, defaultPageSize)
		},
		save: func(ctx context.Context, articles []models.Article) error {
			if err := r.store.UpsertArticles(ctx, articles); err != nil {
				return &errs.StoreError{Op: "upsert articles", Err: err}
			}
			return nil
		},
	})
}

// GetByTags filters the cached feed by tags and then re-queries the remote
// with a tag keyword search, caching and emitting the fresh set.
func (r *NewsRepository) GetByTags(ctx context.Context, tags []models.Tag) <-chan Result[[]models.Article] {
	keywords := make([]string, len(tags))
	for i, t := range tags {
		keywords[i] = t.DisplayName()
	}
	query := strings.Join(keywords, " OR ")

	return streamFeed(ctx, false, feedFuncs[models.Article]{
		entity: "news",
		queryCache: func(ctx context.Context) ([]models.Article, error) {
			all, err := r.store.ListArticles(ctx, "")
			if err != nil {
				return nil, &errs.StoreError{Op: "list articles", Err: err}
			}
			return filterByTags(all, tags), nil
		},
		fetch: func(ctx context.Context) ([]models.Article, error) {
			return r.source.Search(ctx, query, 1, defaultPageSize)
		},
		save: func(ctx context.Context, articles []models.Article) error {
			if err := r.store.UpsertArticles(ctx, articles); err != nil {
				return &errs.StoreError{Op: "upsert articles", Err: err}
			}
			return nil
		},
	})
}

func filterByTags(articles []models.Article, tags []models.Tag) []models.Article {
	wanted := make(map[models.Tag]struct{}, len(tags))
	for _, t := range tags {
		wanted[t] = struct{}{}
	}
	var filtered []models.Article
	for _, a := range articles {
		for _, t := range a.Tags {
			if _, ok := wanted[t]; ok {
				filtered = append(filtered, a)
				break
			}
		}
	}
	return filtered
}

// Search runs the local substring search and the remote keyword search
// concurrently. A remote failure yields an empty remote list; the call fails
// only when both paths fail. Duplicates keep the remote variant.
func (r *NewsRepository) Search(ctx context.Context, query string) Result[[]models.Article] {
	var (
		wg        sync.WaitGroup
		local     []models.Article
		localErr  error
		fetched   []models.Article
		remoteErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		local, localErr = r.store.SearchArticles(ctx, query)
	}()
	go func() {
		defer wg.Done()
		fetched, remoteErr = r.source.Search(ctx, query, 1, defaultPageSize)
	}()
	wg.Wait()

	if remoteErr != nil {
		fetched = nil
	}
	if localErr != nil && remoteErr != nil {
		return Fail[[]models.Article](&errs.StoreError{Op: "search articles", Err: localErr})
	}
	merged := mergeByID(fetched, local,
		func(a models.Article) string { return a.ID },
		func(a models.Article) time.Time { return a.PublishedAt })
	return Ok(merged)
}

// GetByID returns a single article, cache first, then the network. A fetched
// article is cached before it is returned.
func (r *NewsRepository) GetByID(ctx context.Context, id string) Result[*models.Article] {
	cached, err := r.store.GetArticle(ctx, id)
	if err != nil {
		return Fail[*models.Article](&errs.StoreError{Op: "get article", Err: err})
	}
	if cached != nil {
		return Ok(cached)
	}
	fetched, err := r.source.GetByID(ctx, id)
	if err != nil {
		return Fail[*models.Article](err)
	}
	if fetched == nil {
		return Fail[*models.Article](&errs.NotFoundError{Kind: "article", ID: id})
	}
	if err := r.store.UpsertArticles(ctx, []models.Article{*fetched}); err != nil {
		return Fail[*models.Article](&errs.StoreError{Op: "upsert article", Err: err})
	}
	return Ok(fetched)
}

// ToggleSave flips the saved flag and returns the new value. Fails with
// NotFoundError when the article is not cached.
func (r *NewsRepository) ToggleSave(ctx context.Context, id string) Result[bool] {
	article, err := r.store.GetArticle(ctx, id)
	if err != nil {
		return Fail[bool](&errs.StoreError{Op: "get article", Err: err})
	}
	if article == nil {
		return Fail[bool](&errs.NotFoundError{Kind: "article", ID: id})
	}
	newState := !article.Saved
	if err := r.store.SetArticleSaved(ctx, id, newState); err != nil {
		return Fail[bool](&errs.StoreError{Op: "set saved", Err: err})
	}
	return Ok(newState)
}

// MarkAsRead marks an article read. Fails with NotFoundError when the
// article is not cached.
func (r *NewsRepository) MarkAsRead(ctx context.Context, id string) error {
	article, err := r.store.GetArticle(ctx, id)
	if err != nil {
		return &errs.StoreError{Op: "get article", Err: err}
	}
	if article == nil {
		return &errs.NotFoundError{Kind: "article", ID: id}
	}
	if err := r.store.SetArticleRead(ctx, id, true); err != nil {
		return &errs.StoreError{Op: "set read", Err: err}
	}
	return nil
}

// GetSaved returns the articles the user saved for offline reading.
func (r *NewsRepository) GetSaved(ctx context.Context) Result[[]models.Article] {
	articles, err := r.store.SavedArticles(ctx)
	if err != nil {
		return Fail[[]models.Article](&errs.StoreError{Op: "saved articles", Err: err})
	}
	return Ok(articles)
}

// CachedCount returns how many articles are cached locally.
func (r *NewsRepository) CachedCount(ctx context.Context) (int, error) {
	n, err := r.store.CountArticles(ctx)
	if err != nil {
		return 0, &errs.StoreError{Op: "count articles", Err: err}
	}
	return n, nil
}

// RefreshAndCache fetches up to limit fresh articles, caches them, then
// evicts unsaved articles beyond the retention cap.
func (r *NewsRepository) RefreshAndCache(ctx context.Context, limit int) error {
	articles, err := r.source.ListLatest(ctx, 1, limit)
	if err != nil {
		metrics.RemoteFetches.WithLabelValues("news", "error").Inc()
		return err
	}
	metrics.RemoteFetches.WithLabelValues("news", "ok").Inc()
	if len(articles) > limit {
		articles = articles[:limit]
	}
	if err := r.store.UpsertArticles(ctx, articles); err != nil {
		return &errs.StoreError{Op: "upsert articles", Err: err}
	}
	evicted, err := r.store.EvictUnsavedArticles(ctx, r.retention)
	if err != nil {
		return &errs.StoreError{Op: "evict articles", Err: err}
	}
	metrics.Evictions.WithLabelValues("news").Add(float64(evicted))
	return nil
}
