package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epistula_cache_lookups_total",
		Help: "Total number of response cache lookups.",
	}, []string{"status" /* hit | miss | expired */})

	cacheWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "epistula_cache_writes_total",
		Help: "Total number of response cache writes.",
	})

	cacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "epistula_cache_invalidations_total",
		Help: "Total number of response cache entries removed by invalidation.",
	})
)
