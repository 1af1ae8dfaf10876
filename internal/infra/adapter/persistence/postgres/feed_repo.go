package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"colette/internal/core/model"
	"colette/internal/pagination"
	"colette/internal/repository"
)

const feedColumns = `id, source_url, link, title, description, refresh_interval_min, status, refreshed_at, is_custom, consecutive_empty_scrapes`

// FeedRepo is the Postgres adapter for repository.FeedRepository, following
// the teacher's database/sql-over-pgx/stdlib idiom: raw SQL with $N
// placeholders, manual Scan, sql.ErrNoRows folded into (nil, nil).
type FeedRepo struct{ db querier }

// NewFeedRepo constructs a FeedRepo.
func NewFeedRepo(db querier) repository.FeedRepository {
	return &FeedRepo{db: db}
}

func scanFeed(row interface{ Scan(dest ...any) error }) (*model.Feed, error) {
	var f model.Feed
	var id int64
	if err := row.Scan(
		&id, &f.SourceURL, &f.Link, &f.Title, &f.Description,
		&f.RefreshIntervalMin, &f.Status, &f.RefreshedAt, &f.IsCustom, &f.ConsecutiveEmptyScrapes,
	); err != nil {
		return nil, err
	}
	f.ID = formatID(id)
	return &f, nil
}

func (r *FeedRepo) FindByID(ctx context.Context, id string) (*model.Feed, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + feedColumns + ` FROM feeds WHERE id = $1`
	f, err := scanFeed(q(ctx, r.db).QueryRowContext(ctx, query, n))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByID: %w", err)
	}
	return f, nil
}

func (r *FeedRepo) FindBySourceURL(ctx context.Context, sourceURL string) (*model.Feed, error) {
	query := `SELECT ` + feedColumns + ` FROM feeds WHERE source_url = $1`
	f, err := scanFeed(q(ctx, r.db).QueryRowContext(ctx, query, sourceURL))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindBySourceURL: %w", err)
	}
	return f, nil
}

func (r *FeedRepo) Find(ctx context.Context, params repository.FeedFindParams) ([]*model.Feed, error) {
	query := `SELECT ` + feedColumns + ` FROM feeds WHERE 1 = 1`
	var args []any

	if params.ID != nil {
		n, err := parseID(*params.ID)
		if err != nil {
			return nil, err
		}
		args = append(args, n)
		query += fmt.Sprintf(" AND id = $%d", len(args))
	}
	if params.Cursor != nil {
		var cursor pagination.EntryCursor
		if err := pagination.DecodeCursor(*params.Cursor, &cursor); err != nil {
			return nil, err
		}
		n, err := parseID(cursor.ID)
		if err != nil {
			return nil, err
		}
		args = append(args, n)
		query += fmt.Sprintf(" AND id > $%d", len(args))
	}
	query += " ORDER BY id ASC"

	limit := params.Limit
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := q(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Find: %w", err)
	}
	defer func() { _ = rows.Close() }()

	feeds := make([]*model.Feed, 0, limit)
	for rows.Next() {
		f, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("Find: %w", err)
		}
		feeds = append(feeds, f)
	}
	return feeds, rows.Err()
}

func (r *FeedRepo) FindOutdated(ctx context.Context, params repository.OutdatedFeedParams) ([]*model.Feed, error) {
	query := `SELECT ` + feedColumns + ` FROM feeds
WHERE status != 'failed'
AND (refreshed_at IS NULL OR refreshed_at + (refresh_interval_min * INTERVAL '1 minute') <= $1)
ORDER BY refreshed_at ASC NULLS FIRST
LIMIT $2`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, params.Now, params.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("FindOutdated: %w", err)
	}
	defer func() { _ = rows.Close() }()

	feeds := make([]*model.Feed, 0, params.BatchSize)
	for rows.Next() {
		f, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("FindOutdated: %w", err)
		}
		feeds = append(feeds, f)
	}
	return feeds, rows.Err()
}

func (r *FeedRepo) Save(ctx context.Context, f *model.Feed) error {
	exec := q(ctx, r.db)
	if f.ID == "" {
		const query = `
INSERT INTO feeds (source_url, link, title, description, refresh_interval_min, status, refreshed_at, is_custom, consecutive_empty_scrapes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`
		var id int64
		err := exec.QueryRowContext(ctx, query,
			f.SourceURL, f.Link, f.Title, f.Description, f.RefreshIntervalMin,
			f.Status, f.RefreshedAt, f.IsCustom, f.ConsecutiveEmptyScrapes,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("Save: insert: %w", err)
		}
		f.ID = formatID(id)
		return nil
	}

	n, err := parseID(f.ID)
	if err != nil {
		return err
	}
	const query = `
UPDATE feeds SET
       source_url                = $1,
       link                      = $2,
       title                     = $3,
       description               = $4,
       refresh_interval_min      = $5,
       status                    = $6,
       refreshed_at              = $7,
       is_custom                 = $8,
       consecutive_empty_scrapes = $9
WHERE id = $10`
	_, err = exec.ExecContext(ctx, query,
		f.SourceURL, f.Link, f.Title, f.Description, f.RefreshIntervalMin,
		f.Status, f.RefreshedAt, f.IsCustom, f.ConsecutiveEmptyScrapes, n,
	)
	if err != nil {
		return fmt.Errorf("Save: update: %w", err)
	}
	return nil
}

func (r *FeedRepo) DeleteByID(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	_, err = q(ctx, r.db).ExecContext(ctx, `DELETE FROM feeds WHERE id = $1`, n)
	if err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}
	return nil
}
