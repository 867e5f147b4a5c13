package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups counts cache-aside reads by entity and where the value came
	// from (cache|store).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clientdesk_cache_lookups_total",
			Help: "Total number of cache-aside reads by data source",
		},
		[]string{"entity", "source"},
	)

	// CacheInvalidations counts cache keys invalidated after write-through operations.
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clientdesk_cache_invalidations_total",
			Help: "Total number of cache keys invalidated after store writes",
		},
		[]string{"entity"},
	)

	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clientdesk_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clientdesk_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
