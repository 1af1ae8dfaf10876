package job

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"colette/internal/core/coreerr"
	"colette/internal/resilience/retry"
)

// Handler executes one job's payload. An error satisfying
// coreerr.ScrapeTransientError (or wrapping one) is requeued with backoff;
// any other error is permanent and fails the job.
type Handler func(ctx context.Context, j *Job) error

// Repository is the job-store view the worker pool needs (cmd/worker adapts
// repository.JobRepository to it); declared locally to avoid an import cycle with the repository
// package (which does not need to know about the worker).
type Repository interface {
	FindByID(ctx context.Context, id string) (*Job, error)
	Update(ctx context.Context, id string, status *Status, message *string, attempts *int) error
}

// Pool runs a set of workers shared by every registered job type; no worker
// is dedicated to one type. Each pops job IDs off consumer, loading the job
// from repo, and dispatching to the handler registered for its Type.
type Pool struct {
	consumer Consumer
	producer Producer
	repo     Repository
	handlers map[string]Handler
	backoff  retry.Config
}

// NewPool constructs a worker Pool. Handlers are registered with Register
// before calling Run.
func NewPool(consumer Consumer, producer Producer, repo Repository) *Pool {
	return &Pool{
		consumer: consumer,
		producer: producer,
		repo:     repo,
		handlers: make(map[string]Handler),
		backoff:  retry.JobQueueConfig(),
	}
}

// Register binds a Handler to a job type name (job.TypeScrapeFeed, etc).
func (p *Pool) Register(jobType string, h Handler) {
	p.handlers[jobType] = h
}

// Run starts n workers and blocks until ctx is canceled or the queue
// closes; each worker finishes any in-flight job before returning (§4.10
// cancellation contract: in-flight work completes, only the next pop is
// where shutdown is observed).
func (p *Pool) Run(ctx context.Context, n int) {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.runWorker(ctx)
		}()
	}
	wg.Wait()
}

func (p *Pool) runWorker(ctx context.Context) {
	for {
		id, ok := p.consumer.Pop(ctx)
		if !ok {
			return
		}
		p.process(ctx, id)
	}
}

func (p *Pool) process(ctx context.Context, id string) {
	j, err := p.repo.FindByID(ctx, id)
	if err != nil {
		slog.Error("job: load failed", slog.String("job_id", id), slog.Any("error", err))
		return
	}

	handler, ok := p.handlers[j.Type]
	if !ok {
		slog.Error("job: no handler registered", slog.String("job_id", id), slog.String("type", j.Type))
		p.markFailed(ctx, id, "no handler registered for type "+j.Type)
		return
	}

	running := StatusRunning
	if err := p.repo.Update(ctx, id, &running, nil, nil); err != nil {
		slog.Error("job: transition to running failed", slog.String("job_id", id), slog.Any("error", err))
		return
	}

	if err := handler(ctx, j); err != nil {
		p.handleFailure(ctx, j, err)
		return
	}

	completed := StatusCompleted
	if err := p.repo.Update(ctx, id, &completed, nil, nil); err != nil {
		if !errors.Is(err, coreerr.ErrAlreadyCompleted) {
			slog.Error("job: transition to completed failed", slog.String("job_id", id), slog.Any("error", err))
		}
	}
}

func (p *Pool) handleFailure(ctx context.Context, j *Job, err error) {
	var transient coreerr.ScrapeTransientError
	if !errors.As(err, &transient) {
		p.markFailed(ctx, j.ID, err.Error())
		return
	}

	attempts := j.Attempts + 1
	if attempts >= p.backoff.MaxAttempts {
		p.markFailed(ctx, j.ID, err.Error())
		return
	}

	pending := StatusPending
	message := err.Error()
	if updErr := p.repo.Update(ctx, j.ID, &pending, &message, &attempts); updErr != nil {
		slog.Error("job: requeue transition failed", slog.String("job_id", j.ID), slog.Any("error", updErr))
		return
	}

	delay := retry.DelayForAttempt(p.backoff, attempts)
	time.AfterFunc(delay, func() {
		pushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if pushErr := p.producer.Push(pushCtx, j.ID); pushErr != nil {
			slog.Error("job: requeue push failed", slog.String("job_id", j.ID), slog.Any("error", pushErr))
		}
	})
}

func (p *Pool) markFailed(ctx context.Context, id, message string) {
	failed := StatusFailed
	if err := p.repo.Update(ctx, id, &failed, &message, nil); err != nil {
		slog.Error("job: transition to failed failed", slog.String("job_id", id), slog.Any("error", err))
	}
}
