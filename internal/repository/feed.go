package repository

import (
	"context"
	"sort"
	"time"

	"github.com/cyberpulse/pulse/internal/logger"
	"github.com/cyberpulse/pulse/internal/metrics"
)

// feedFuncs parameterizes the stale-while-revalidate protocol by entity kind.
// queryCache and save must wrap their errors into the shared taxonomy.
type feedFuncs[T any] struct {
	entity     string
	queryCache func(ctx context.Context) ([]T, error)
	fetch      func(ctx context.Context) ([]T, error)
	save       func(ctx context.Context, items []T) error
}

// streamFeed runs the shared read protocol and emits results on the returned
// channel, which is closed when the call terminates or ctx is cancelled.
//
// Unless forceRefresh is set, a non-empty cache is emitted first, strictly
// before the network fetch is started. On fetch success the fresh set is
// saved and emitted as the authoritative result. On fetch failure a non-empty
// cache terminates the call in success; only an empty cache surfaces the
// network error.
func streamFeed[T any](ctx context.Context, forceRefresh bool, f feedFuncs[T]) <-chan Result[[]T] {
	out := make(chan Result[[]T], 2)
	go func() {
		defer close(out)

		emit := func(r Result[[]T]) bool {
			select {
			case out <- r:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !forceRefresh {
			cached, err := f.queryCache(ctx)
			switch {
			case err != nil:
				// The authoritative path may still succeed.
				logger.Warn().Err(err).Msg("cache read failed, continuing with network")
			case len(cached) > 0:
				metrics.FeedEmissions.WithLabelValues(f.entity, "stale").Inc()
				if !emit(Ok(cached)) {
					return
				}
			}
		}

		fresh, err := f.fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			metrics.RemoteFetches.WithLabelValues(f.entity, "error").Inc()
			cached, cerr := f.queryCache(ctx)
			if cerr == nil && len(cached) > 0 {
				logger.Debug().Err(err).Msg("network fetch failed, serving cache")
				metrics.FeedEmissions.WithLabelValues(f.entity, "fallback").Inc()
				emit(Ok(cached))
				return
			}
			metrics.FeedEmissions.WithLabelValues(f.entity, "failure").Inc()
			emit(Fail[[]T](err))
			return
		}
		metrics.RemoteFetches.WithLabelValues(f.entity, "ok").Inc()
		if ctx.Err() != nil {
			return
		}
		if err := f.save(ctx, fresh); err != nil {
			emit(Fail[[]T](err))
			return
		}
		metrics.FeedEmissions.WithLabelValues(f.entity, "fresh").Inc()
		emit(Ok(fresh))
	}()
	return out
}

// CollectFeed drains a feed stream and returns its final emission, which
// supersedes any earlier cached one. For single-shot callers that only want
// the authoritative result.
func CollectFeed[T any](stream <-chan Result[[]T]) Result[[]T] {
	last := Ok[[]T](nil)
	for r := range stream {
		last = r
	}
	return last
}

// mergeByID concatenates remote-then-local results, keeps the first
// occurrence of each id (so the remote variant wins on duplicates) and sorts
// by recency descending.
func mergeByID[T any](remote, local []T, id func(T) string, recency func(T) time.Time) []T {
	merged := make([]T, 0, len(remote)+len(local))
	seen := make(map[string]struct{}, len(remote)+len(local))
	for _, item := range append(append([]T{}, remote...), local...) {
		key := id(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, item)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return recency(merged[i]).After(recency(merged[j]))
	})
	return merged
}
