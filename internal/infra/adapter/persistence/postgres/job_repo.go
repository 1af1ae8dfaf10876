package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"colette/internal/core/coreerr"
	"colette/internal/job"
	"colette/internal/repository"
)

const jobColumns = `id, type, data, status, group_identifier, message, attempts, created_at, updated_at`

// JobRepo is the Postgres adapter for repository.JobRepository.
type JobRepo struct{ db querier }

// NewJobRepo constructs a JobRepo.
func NewJobRepo(db querier) repository.JobRepository {
	return &JobRepo{db: db}
}

func scanJob(row interface{ Scan(dest ...any) error }) (*job.Job, error) {
	var j job.Job
	var id int64
	var status string
	if err := row.Scan(&id, &j.Type, &j.Data, &status, &j.GroupIdentifier, &j.Message, &j.Attempts, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, err
	}
	j.ID = formatID(id)
	parsed, err := job.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	j.Status = parsed
	return &j, nil
}

func (r *JobRepo) FindByID(ctx context.Context, id string) (*job.Job, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	j, err := scanJob(q(ctx, r.db).QueryRowContext(ctx, query, n))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByID: %w", err)
	}
	return j, nil
}

func (r *JobRepo) Insert(ctx context.Context, j *job.Job) error {
	const query = `
INSERT INTO jobs (type, data, status, group_identifier, message, attempts)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`
	var id int64
	err := q(ctx, r.db).QueryRowContext(ctx, query,
		j.Type, j.Data, j.Status.String(), j.GroupIdentifier, j.Message, j.Attempts,
	).Scan(&id, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("Insert: %w", err)
	}
	j.ID = formatID(id)
	return nil
}

// Update applies upd to the job identified by id, rejecting any transition
// once the stored row is already Completed (P5: terminal states are sticky).
func (r *JobRepo) Update(ctx context.Context, id string, upd repository.JobUpdate) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}

	var currentStatus string
	err = q(ctx, r.db).QueryRowContext(ctx, `SELECT status FROM jobs WHERE id = $1`, n).Scan(&currentStatus)
	if err == sql.ErrNoRows {
		return fmt.Errorf("Update: %w", coreerr.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if currentStatus == job.StatusCompleted.String() {
		return coreerr.ErrAlreadyCompleted
	}

	query := `UPDATE jobs SET updated_at = now()`
	var args []any
	if upd.Status != nil {
		args = append(args, upd.Status.String())
		query += fmt.Sprintf(", status = $%d", len(args))
	}
	if upd.Message != nil {
		args = append(args, *upd.Message)
		query += fmt.Sprintf(", message = $%d", len(args))
	}
	if upd.Attempts != nil {
		args = append(args, *upd.Attempts)
		query += fmt.Sprintf(", attempts = $%d", len(args))
	}
	args = append(args, n)
	query += fmt.Sprintf(" WHERE id = $%d", len(args))

	if _, err := q(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

func (r *JobRepo) List(ctx context.Context, params repository.JobListParams) ([]*job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1 = 1`
	var args []any

	if params.Status != nil {
		args = append(args, params.Status.String())
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if params.GroupIdentifier != nil {
		args = append(args, *params.GroupIdentifier)
		query += fmt.Sprintf(" AND group_identifier = $%d", len(args))
	}
	query += " ORDER BY id ASC"

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := q(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	jobs := make([]*job.Job, 0, limit)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
