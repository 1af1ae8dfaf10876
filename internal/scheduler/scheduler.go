// Package scheduler periodically sweeps the feed repository for entries due
// a refresh and emits scrape_feed jobs for them.
//
// Grounded on the teacher's cmd/worker cron wiring (robfig/cron/v3, one
// AddFunc bound to a configurable schedule, started once and run for the
// life of the process).
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"colette/internal/core/model"
	"colette/internal/job"
	"colette/internal/repository"
)

// DefaultSchedule matches every 15 minutes, on the minute.
const DefaultSchedule = "0 */15 * * * *"

// DefaultBatchSize caps how many outdated feeds one tick enqueues.
const DefaultBatchSize = 100

// emptyScrapeThreshold is the number of consecutive scrapes that must
// produce zero new entries before the adaptive cadence backs a feed off.
const emptyScrapeThreshold = 3

// Scheduler ticks on a cron schedule, finds feeds due a refresh, and
// enqueues a deduplicated scrape_feed job per feed.
type Scheduler struct {
	feeds     repository.FeedRepository
	jobs      repository.JobRepository
	producer  job.Producer
	schedule  string
	batchSize int
	loc       *time.Location
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSchedule overrides DefaultSchedule with a 6-field cron expression.
func WithSchedule(expr string) Option {
	return func(s *Scheduler) { s.schedule = expr }
}

// WithBatchSize overrides DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(s *Scheduler) { s.batchSize = n }
}

// WithLocation sets the timezone cron schedules are evaluated in; defaults
// to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.loc = loc }
}

// New constructs a Scheduler with DefaultSchedule/DefaultBatchSize/UTC
// unless overridden by opts.
func New(feeds repository.FeedRepository, jobs repository.JobRepository, producer job.Producer, opts ...Option) *Scheduler {
	s := &Scheduler{
		feeds:     feeds,
		jobs:      jobs,
		producer:  producer,
		schedule:  DefaultSchedule,
		batchSize: DefaultBatchSize,
		loc:       time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts the cron loop and blocks until ctx is canceled, at which point
// it stops the underlying cron scheduler and waits for any in-flight tick
// to finish before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(s.loc), cron.WithSeconds())
	if _, err := c.AddFunc(s.schedule, func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("scheduler: invalid schedule %q: %w", s.schedule, err)
	}

	c.Start()
	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}

// tick runs one refresh sweep: find outdated feeds, dedupe by ID within the
// tick, and enqueue a scrape_feed job for each.
func (s *Scheduler) tick(ctx context.Context) {
	feeds, err := s.feeds.FindOutdated(ctx, repository.OutdatedFeedParams{
		Now:       time.Now(),
		BatchSize: s.batchSize,
	})
	if err != nil {
		slog.Error("scheduler: find outdated feeds failed", slog.Any("error", err))
		return
	}

	seen := make(map[string]bool, len(feeds))
	for _, f := range feeds {
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		s.enqueue(ctx, f)
	}
}

func (s *Scheduler) enqueue(ctx context.Context, f *model.Feed) {
	j, err := job.NewJob(job.TypeScrapeFeed, job.ScrapeFeedPayload{
		FeedID:    f.ID,
		SourceURL: f.SourceURL,
	})
	if err != nil {
		slog.Error("scheduler: build job failed", slog.String("feed_id", f.ID), slog.Any("error", err))
		return
	}

	if err := s.jobs.Insert(ctx, j); err != nil {
		slog.Error("scheduler: insert job failed", slog.String("feed_id", f.ID), slog.Any("error", err))
		return
	}

	if err := s.producer.Push(ctx, j.ID); err != nil {
		slog.Error("scheduler: push job failed", slog.String("feed_id", f.ID), slog.String("job_id", j.ID), slog.Any("error", err))
	}
}

// ApplyScrapeOutcome mutates f's refresh bookkeeping in place to reflect the
// result of one scrape attempt, per the adaptive cadence policy: a scrape
// that yields at least one new entry resets the feed to
// model.DefaultRefreshIntervalMin and its empty-scrape streak; one that
// yields none extends the streak and, once it reaches emptyScrapeThreshold,
// doubles the interval up to model.MaxRefreshIntervalMin. A permanent
// failure marks the feed Failed and leaves the interval untouched so a
// later manual retry does not inherit a backed-off cadence.
func ApplyScrapeOutcome(f *model.Feed, newEntries int, permanentFailure bool, at time.Time) {
	f.RefreshedAt = &at

	if permanentFailure {
		f.Status = model.FeedStatusFailed
		return
	}

	f.Status = model.FeedStatusHealthy

	if newEntries > 0 {
		f.ConsecutiveEmptyScrapes = 0
		f.RefreshIntervalMin = model.DefaultRefreshIntervalMin
		return
	}

	f.ConsecutiveEmptyScrapes++
	if f.ConsecutiveEmptyScrapes < emptyScrapeThreshold {
		return
	}

	doubled := f.RefreshIntervalMin * 2
	if doubled > model.MaxRefreshIntervalMin || doubled == 0 {
		doubled = model.MaxRefreshIntervalMin
	}
	f.RefreshIntervalMin = doubled
}
