package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	pgRepo "colette/internal/infra/adapter/persistence/postgres"
	"colette/internal/infra/db"
	workerPkg "colette/internal/infra/worker"
	"colette/internal/ingest/scrape"
	"colette/internal/ingest/service"
	"colette/internal/job"
	"colette/internal/observability/logging"
	"colette/internal/observability/metrics"
	"colette/internal/observability/tracing"
	"colette/internal/resilience/circuitbreaker"
	"colette/internal/scheduler"
)

// queueCapacity bounds the in-process job ID channel the scheduler and
// scrape worker pool communicate through.
const queueCapacity = 1024

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("refresh_schedule", workerConfig.RefreshSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Bool("refresh_enabled", workerConfig.RefreshEnabled),
		slog.Int("worker_count", workerConfig.WorkerCount),
		slog.Int("batch_size", workerConfig.BatchSize),
		slog.Duration("job_timeout", workerConfig.JobTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	metricsServer := startMetricsServer(ctx, logger)
	defer func() { _ = metricsServer.Shutdown(context.Background()) }()

	go reportDBStats(ctx, database)

	dbBreaker := circuitbreaker.NewDBCircuitBreaker(database)

	feeds := pgRepo.NewFeedRepo(dbBreaker)
	subs := pgRepo.NewSubscriptionRepo(dbBreaker)
	entries := pgRepo.NewFeedEntryRepo(dbBreaker)
	bookmarks := pgRepo.NewBookmarkRepo(dbBreaker)
	tags := pgRepo.NewTagRepo(dbBreaker)
	jobs := pgRepo.NewJobRepo(dbBreaker)
	tx := pgRepo.NewTransactor(dbBreaker)

	queue := job.NewQueue(queueCapacity)
	svc := service.New(feeds, subs, entries, bookmarks, tags, jobs, queue.Producer(), tx)
	pipeline := scrape.NewPipeline(createHTTPClient())

	pool := job.NewPool(queue.Consumer(), queue.Producer(), newJobRepoAdapter(jobs))
	pool.Register(job.TypeScrapeFeed, tracing.WrapJobHandler(withJobTimeout(workerConfig.JobTimeout, service.ScrapeFeedHandler(pipeline, svc))))
	pool.Register(job.TypeScrapeBookmark, tracing.WrapJobHandler(withJobTimeout(workerConfig.JobTimeout, service.ScrapeBookmarkHandler(pipeline, svc))))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		pool.Run(ctx, workerConfig.WorkerCount)
	}()

	loc, err := time.LoadLocation(workerConfig.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, using UTC", slog.String("timezone", workerConfig.Timezone), slog.Any("error", err))
		loc = time.UTC
	}

	if workerConfig.RefreshEnabled {
		sched := scheduler.New(feeds, jobs, queue.Producer(),
			scheduler.WithSchedule(workerConfig.RefreshSchedule),
			scheduler.WithBatchSize(workerConfig.BatchSize),
			scheduler.WithLocation(loc))

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sched.Run(ctx); err != nil {
				logger.Error("scheduler stopped with error", slog.Any("error", err))
			}
		}()
		logger.Info("refresh scheduler started",
			slog.String("schedule", workerConfig.RefreshSchedule),
			slog.String("timezone", workerConfig.Timezone))
	} else {
		logger.Info("refresh scheduler disabled, draining queued jobs only")
	}

	healthServer.SetReady(true)
	logger.Info("worker marked as ready")

	<-ctx.Done()
	logger.Info("shutdown signal received, waiting for in-flight work to finish")
	queue.Close()
	wg.Wait()
	logger.Info("worker stopped")
}

// initDatabase opens the database connection and applies the (idempotent)
// schema migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// createHTTPClient creates the HTTP client the scrape pipeline downloads
// feeds and bookmark pages with. TLS 1.2+ is enforced.
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// withJobTimeout bounds a single job's handler execution to d, the
// per-job-type concern JobTimeout was introduced for.
func withJobTimeout(d time.Duration, h job.Handler) job.Handler {
	return func(ctx context.Context, j *job.Job) error {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return h(ctx, j)
	}
}

// reportDBStats polls the connection pool's stats and republishes them as
// gauges until ctx is canceled.
func reportDBStats(ctx context.Context, database *sql.DB) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := database.Stats()
			metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
		}
	}
}
