package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog API client metrics
	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_catalog_request_duration_seconds",
			Help:    "Duration of catalog API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_catalog_requests_total",
			Help: "Total number of catalog API requests by outcome",
		},
		[]string{"operation", "outcome"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "discovery_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Aggregator metrics
	FanOutSearches = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_fanout_searches",
			Help:    "Number of per-token searches issued by one similarity call",
			Buckets: []float64{0, 1, 2, 3, 4, 6, 8, 12},
		},
	)

	DiscoveryResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_results",
			Help:    "Number of recipes returned by one aggregation call",
			Buckets: []float64{0, 1, 3, 5, 8, 10, 20},
		},
		[]string{"kind"},
	)

	// Pagination metrics
	PagesLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_pages_loaded_total",
			Help: "Total number of listing pages requested by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordCatalogRequest records one catalog API call
func RecordCatalogRequest(operation string, duration time.Duration, err error) {
	CatalogRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	CatalogRequestsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordDiscovery records the size of an aggregation result
func RecordDiscovery(kind string, results int) {
	DiscoveryResults.WithLabelValues(kind).Observe(float64(results))
}
