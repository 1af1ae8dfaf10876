// Package metrics provides centralized Prometheus metrics for the worker process.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business metrics track application-specific state independent of any
// single cron run (see internal/infra/worker for per-run cron metrics).
var (
	// FeedsTotal tracks the total number of feeds in the database.
	FeedsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feeds_total",
			Help: "Total number of feeds in the database",
		},
	)

	// FeedsByStatus tracks feed counts by lifecycle status.
	FeedsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "feeds_by_status",
			Help: "Number of feeds in each lifecycle status",
		},
		[]string{"status"},
	)

	// BookmarksTotal tracks the total number of bookmarks in the database.
	BookmarksTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookmarks_total",
			Help: "Total number of bookmarks in the database",
		},
	)

	// EntriesFetchedTotal counts feed entries ingested per feed.
	EntriesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_entries_fetched_total",
			Help: "Total number of feed entries ingested, by feed",
		},
		[]string{"feed_id"},
	)

	// ScrapeDuration measures time to scrape a feed or bookmark.
	ScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrape_duration_seconds",
			Help:    "Time taken to scrape a feed or bookmark",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"target"}, // target: feed, bookmark
	)

	// ScrapeErrors counts scrape failures by target and error class.
	ScrapeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_errors_total",
			Help: "Total number of scrape errors",
		},
		[]string{"target", "error_type"}, // error_type: transient, permanent
	)
)

// Database metrics track database performance.
var (
	// DBQueryDuration measures database query duration.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections.
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections.
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)
