// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes application-level metrics that live outside any
// single cron run: feed/bookmark counts, scrape durations and errors, and
// database connection pool stats. Per-run cron metrics (job counts,
// duration, feeds processed) live in internal/infra/worker instead, next to
// the scheduler that produces them.
//
// All metrics are automatically registered with the Prometheus default
// registry and exposed via the worker's /metrics endpoint.
//
// Example usage:
//
//	import "colette/internal/observability/metrics"
//
//	start := time.Now()
//	// ... scrape a feed ...
//	metrics.RecordScrapeDuration("feed", time.Since(start))
package metrics
