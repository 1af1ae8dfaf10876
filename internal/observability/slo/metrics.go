package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets define the service level objectives for the worker process.
// These targets are used to measure and monitor job-processing reliability.
const (
	// JobSuccessRateSLO defines the target job success ratio (99.5%).
	JobSuccessRateSLO = 99.5

	// ScrapeLatencyP95SLO defines the target for 95th percentile scrape
	// latency in seconds (5s).
	ScrapeLatencyP95SLO = 5.0

	// ScrapeLatencyP99SLO defines the target for 99th percentile scrape
	// latency in seconds (15s).
	ScrapeLatencyP99SLO = 15.0

	// JobErrorRateSLO defines the maximum acceptable permanent-failure
	// rate as a ratio (1% = 0.01).
	JobErrorRateSLO = 0.01
)

// SLO tracking metrics.
// These gauges are updated periodically (e.g. once per scheduler tick)
// based on recent measurements to track whether the worker is meeting its
// SLO targets.
var (
	// SLOJobSuccessRate tracks the current job success ratio (0-1),
	// calculated as: (completed_jobs - failed_jobs) / completed_jobs.
	SLOJobSuccessRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_job_success_ratio",
			Help: "Current job success ratio (0-1), target: 0.995",
		},
	)

	// SLOScrapeLatencyP95 tracks the current p95 scrape latency in seconds,
	// calculated from scrape_duration_seconds.
	SLOScrapeLatencyP95 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_scrape_latency_p95_seconds",
			Help: "Current p95 scrape latency in seconds, target: 5.0",
		},
	)

	// SLOScrapeLatencyP99 tracks the current p99 scrape latency in seconds,
	// calculated from scrape_duration_seconds.
	SLOScrapeLatencyP99 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_scrape_latency_p99_seconds",
			Help: "Current p99 scrape latency in seconds, target: 15.0",
		},
	)

	// SLOJobErrorRate tracks the current permanent-failure rate ratio (0-1).
	SLOJobErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_job_error_rate_ratio",
			Help: "Current job error rate ratio (0-1), target: 0.01",
		},
	)
)

// UpdateJobSuccessRate updates the job success SLO metric.
// Call this periodically with the calculated success ratio.
func UpdateJobSuccessRate(ratio float64) {
	SLOJobSuccessRate.Set(ratio)
}

// UpdateScrapeLatencyP95 updates the p95 scrape latency SLO metric.
//
// Example using Prometheus query:
//
//	histogram_quantile(0.95, rate(scrape_duration_seconds_bucket[5m]))
func UpdateScrapeLatencyP95(seconds float64) {
	SLOScrapeLatencyP95.Set(seconds)
}

// UpdateScrapeLatencyP99 updates the p99 scrape latency SLO metric.
//
// Example using Prometheus query:
//
//	histogram_quantile(0.99, rate(scrape_duration_seconds_bucket[5m]))
func UpdateScrapeLatencyP99(seconds float64) {
	SLOScrapeLatencyP99.Set(seconds)
}

// UpdateJobErrorRate updates the job error rate SLO metric.
// Call this periodically with the calculated permanent-failure ratio.
func UpdateJobErrorRate(ratio float64) {
	SLOJobErrorRate.Set(ratio)
}
