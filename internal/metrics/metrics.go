// Package metrics exposes Prometheus collectors for the sync layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RemoteFetches counts remote fetch outcomes per entity kind.
	RemoteFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_remote_fetch_total",
		Help: "Remote source fetches by entity kind and outcome.",
	}, []string{"entity", "outcome"})

	// FeedEmissions counts feed results by emission kind
	// (stale, fresh, fallback, failure).
	FeedEmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_feed_emission_total",
		Help: "Feed protocol emissions by entity kind and emission kind.",
	}, []string{"entity", "kind"})

	// Evictions counts records removed by retention cleanup.
	Evictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_retention_evicted_total",
		Help: "Records evicted by retention cleanup per entity kind.",
	}, []string{"entity"})

	// OmniBranchFailures counts omni-search branches that resolved to empty
	// because of an error.
	OmniBranchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_omni_branch_failure_total",
		Help: "Omni-search branches that failed and were isolated to empty.",
	}, []string{"branch"})

	// ResultCacheLookups counts short-TTL result cache hits and misses per
	// caller surface (omni-search, pwned checks).
	ResultCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_result_cache_total",
		Help: "Short-TTL result cache lookups by surface and outcome.",
	}, []string{"surface", "outcome"})
)
