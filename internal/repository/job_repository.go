package repository

import (
	"context"

	"colette/internal/job"
)

// JobListParams mirrors §4.9's JobRepository.list(status, group_identifier?,
// limit?) signature.
type JobListParams struct {
	Status          *job.Status
	GroupIdentifier *string
	Limit           int
}

// JobUpdate carries the mutable fields of a job transition; nil fields are
// left unchanged. Status transitions into Completed are rejected by the
// implementation once the existing row is already Completed (P5).
type JobUpdate struct {
	Status   *job.Status
	Message  *string
	Attempts *int
}

// JobRepository is the persistence contract for the job queue's durable
// side; the in-process Queue (internal/job) only carries job IDs between
// producer and consumer, this is where lifecycle state lives.
type JobRepository interface {
	Insert(ctx context.Context, j *job.Job) error
	FindByID(ctx context.Context, id string) (*job.Job, error)
	// Update applies upd to the job identified by id. Returns
	// coreerr.ErrAlreadyCompleted if the stored row's status is already
	// Completed (P5: terminal states are sticky).
	Update(ctx context.Context, id string, upd JobUpdate) error
	List(ctx context.Context, params JobListParams) ([]*job.Job, error)
}
