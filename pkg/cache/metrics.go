package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks lookups answered from the store.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapi_proxy_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// CacheMisses tracks lookups for absent keys.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapi_proxy_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// CacheWrites tracks effective writes to the store.
	CacheWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapi_proxy_cache_writes_total",
			Help: "Total number of cache writes",
		},
	)

	// CacheWritesSkipped tracks non-override writes skipped because the
	// key already held an entry.
	CacheWritesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapi_proxy_cache_writes_skipped_total",
			Help: "Total number of cache writes skipped because the key already existed",
		},
	)

	// CacheErrors tracks store operation errors.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapi_proxy_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "exists"
	)
)
