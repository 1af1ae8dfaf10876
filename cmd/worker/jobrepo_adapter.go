package main

import (
	"context"

	"colette/internal/job"
	"colette/internal/repository"
)

// jobRepoAdapter narrows repository.JobRepository down to the 2-method
// shape job.Pool expects. It lives here rather than in internal/job or
// internal/infra/adapter/persistence/postgres because job cannot import
// repository (repository already imports job for the Job/Status types),
// and the Postgres adapter package has no reason to know about the worker
// pool's interface.
type jobRepoAdapter struct {
	repo repository.JobRepository
}

func newJobRepoAdapter(repo repository.JobRepository) job.Repository {
	return &jobRepoAdapter{repo: repo}
}

func (a *jobRepoAdapter) FindByID(ctx context.Context, id string) (*job.Job, error) {
	return a.repo.FindByID(ctx, id)
}

func (a *jobRepoAdapter) Update(ctx context.Context, id string, status *job.Status, message *string, attempts *int) error {
	return a.repo.Update(ctx, id, repository.JobUpdate{
		Status:   status,
		Message:  message,
		Attempts: attempts,
	})
}
