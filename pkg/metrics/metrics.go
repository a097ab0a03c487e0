// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts served requests by method, route pattern and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "book_review_http_requests_total",
		Help: "Total number of HTTP requests served",
	}, []string{"method", "route", "status"})

	// HTTPDuration records request latency by method and route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "book_review_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// RateLimitRejections counts requests refused by the limiter, by backing store.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "book_review_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"store"})

	// RatingCacheLookups counts rating summary cache hits and misses.
	RatingCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "book_review_rating_cache_lookups_total",
		Help: "Rating summary cache lookups by result",
	}, []string{"result"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
