package rotation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "assigner_rotation_cache_hits_total",
	Help: "number of rotation state reads served by the cache",
})

var cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "assigner_rotation_cache_misses_total",
	Help: "number of rotation state reads that fell through to the store",
})
