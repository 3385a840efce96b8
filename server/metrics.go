package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wikioutline_http_requests_total",
		Help: "HTTP requests served, by path and status code.",
	}, []string{"path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wikioutline_http_request_duration_seconds",
		Help:    "HTTP request latency. Cache misses include the upstream fetch.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})
)

// observeRequest records one served request.
func observeRequest(path string, status int, elapsed time.Duration) {
	requestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}
