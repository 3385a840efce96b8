package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wikioutline_cache_hits_total",
		Help: "Number of cache lookups served from disk.",
	})
	misses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wikioutline_cache_misses_total",
		Help: "Number of cache lookups that required an upstream fetch.",
	})
	entriesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wikioutline_cache_entries",
		Help: "Current number of files in the cache directory.",
	})
	bytesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wikioutline_cache_bytes",
		Help: "Total size in bytes of the cache directory.",
	})
)
