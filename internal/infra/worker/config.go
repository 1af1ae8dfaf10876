package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"colette/internal/pkg/config"
	"colette/internal/scheduler"
)

// WorkerConfig holds the configuration for the refresh scheduler and scrape
// worker pool. All fields have defaults and are loaded fail-open: an
// invalid environment value falls back to the default rather than
// preventing startup.
type WorkerConfig struct {
	// RefreshSchedule is the 6-field (seconds-included) cron expression the
	// scheduler ticks on.
	RefreshSchedule string

	// Timezone is the IANA timezone name the schedule is evaluated in.
	Timezone string

	// RefreshEnabled toggles the scheduler loop; disabling it leaves the
	// scrape worker pool running so already-queued jobs still drain.
	RefreshEnabled bool

	// WorkerCount is the number of concurrent workers the job pool runs in
	// total; they are shared by every registered job type.
	WorkerCount int

	// BatchSize caps how many outdated feeds one scheduler tick enqueues.
	BatchSize int

	// JobTimeout bounds how long a single scrape job may run before its
	// context is canceled.
	JobTimeout time.Duration

	// HealthPort is the port number for the health check HTTP server.
	HealthPort int
}

// DefaultConfig returns a WorkerConfig with production-ready defaults.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		RefreshSchedule: scheduler.DefaultSchedule,
		Timezone:        "UTC",
		RefreshEnabled:  true,
		WorkerCount:     10,
		BatchSize:       scheduler.DefaultBatchSize,
		JobTimeout:      2 * time.Minute,
		HealthPort:      9091,
	}
}

// validateSixFieldSchedule validates a seconds-included cron expression,
// the form scheduler.Scheduler parses with cron.WithSeconds.
func validateSixFieldSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// Validate checks the configuration values, mirroring the fail-open
// validators in internal/pkg/config.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := validateSixFieldSchedule(c.RefreshSchedule); err != nil {
		errs = append(errs, fmt.Errorf("refresh schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.WorkerCount, 1, 100); err != nil {
		errs = append(errs, fmt.Errorf("worker count: %w", err))
	}
	if err := config.ValidateIntRange(c.BatchSize, 1, 10000); err != nil {
		errs = append(errs, fmt.Errorf("batch size: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.JobTimeout); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads WorkerConfig from environment variables, falling
// back to DefaultConfig() field-by-field on any invalid value.
//
// Environment variables:
//   - CRON_REFRESH: 6-field cron expression (default scheduler.DefaultSchedule)
//   - WORKER_TIMEZONE: IANA timezone name (default "UTC")
//   - REFRESH_ENABLED: boolean (default true)
//   - WORKER_COUNT: int 1-100 (default 10)
//   - REFRESH_BATCH_SIZE: int 1-10000 (default scheduler.DefaultBatchSize)
//   - JOB_TIMEOUT: duration string, e.g. "2m" (default 2 minutes)
//   - WORKER_HEALTH_PORT: int 1024-65535 (default 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	warn := func(field, warning string) {
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field, "default")
		logger.Warn("configuration fallback applied", slog.String("field", field), slog.String("warning", warning))
	}

	result := config.LoadEnvWithFallback("CRON_REFRESH", cfg.RefreshSchedule, validateSixFieldSchedule)
	cfg.RefreshSchedule = result.Value.(string)
	if result.FallbackApplied {
		for _, w := range result.Warnings {
			warn("refresh_schedule", w)
		}
	}

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	if result.FallbackApplied {
		for _, w := range result.Warnings {
			warn("timezone", w)
		}
	}

	boolResult := config.LoadEnvBool("REFRESH_ENABLED", cfg.RefreshEnabled)
	cfg.RefreshEnabled = boolResult.Value.(bool)

	result = config.LoadEnvInt("WORKER_COUNT", cfg.WorkerCount, func(v int) error {
		return config.ValidateIntRange(v, 1, 100)
	})
	cfg.WorkerCount = result.Value.(int)
	if result.FallbackApplied {
		for _, w := range result.Warnings {
			warn("worker_count", w)
		}
	}

	result = config.LoadEnvInt("REFRESH_BATCH_SIZE", cfg.BatchSize, func(v int) error {
		return config.ValidateIntRange(v, 1, 10000)
	})
	cfg.BatchSize = result.Value.(int)
	if result.FallbackApplied {
		for _, w := range result.Warnings {
			warn("batch_size", w)
		}
	}

	durResult := config.LoadEnvDuration("JOB_TIMEOUT", cfg.JobTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Second, 1*time.Hour)
	})
	cfg.JobTimeout = durResult.Value.(time.Duration)
	if durResult.FallbackApplied {
		for _, w := range durResult.Warnings {
			warn("job_timeout", w)
		}
	}

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	if result.FallbackApplied {
		for _, w := range result.Warnings {
			warn("health_port", w)
		}
	}

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
