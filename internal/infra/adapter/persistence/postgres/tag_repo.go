package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"colette/internal/core/model"
	"colette/internal/repository"
)

// TagRepo is the Postgres adapter for repository.TagRepository.
type TagRepo struct{ db querier }

// NewTagRepo constructs a TagRepo.
func NewTagRepo(db querier) repository.TagRepository {
	return &TagRepo{db: db}
}

func scanTag(row interface{ Scan(dest ...any) error }) (*model.Tag, error) {
	var t model.Tag
	var id int64
	if err := row.Scan(&id, &t.UserID, &t.Title); err != nil {
		return nil, err
	}
	t.ID = formatID(id)
	return &t, nil
}

func (r *TagRepo) FindByID(ctx context.Context, id string) (*model.Tag, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, user_id, title FROM tags WHERE id = $1`
	t, err := scanTag(q(ctx, r.db).QueryRowContext(ctx, query, n))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByID: %w", err)
	}
	return t, nil
}

func (r *TagRepo) Find(ctx context.Context, params repository.TagFindParams) ([]*model.Tag, error) {
	query := `SELECT id, user_id, title FROM tags WHERE 1 = 1`
	var args []any

	if params.UserID != nil {
		args = append(args, *params.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if params.Title != nil {
		args = append(args, *params.Title)
		query += fmt.Sprintf(" AND title = $%d", len(args))
	}
	query += " ORDER BY title ASC"

	rows, err := q(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Find: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tags := make([]*model.Tag, 0, 16)
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("Find: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *TagRepo) Save(ctx context.Context, t *model.Tag) error {
	exec := q(ctx, r.db)
	if t.ID == "" {
		const query = `INSERT INTO tags (user_id, title) VALUES ($1, $2) RETURNING id`
		var id int64
		if err := exec.QueryRowContext(ctx, query, t.UserID, t.Title).Scan(&id); err != nil {
			return fmt.Errorf("Save: insert: %w", err)
		}
		t.ID = formatID(id)
		return nil
	}

	n, err := parseID(t.ID)
	if err != nil {
		return err
	}
	const query = `UPDATE tags SET user_id = $1, title = $2 WHERE id = $3`
	if _, err := exec.ExecContext(ctx, query, t.UserID, t.Title, n); err != nil {
		return fmt.Errorf("Save: update: %w", err)
	}
	return nil
}

func (r *TagRepo) DeleteByID(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	_, err = q(ctx, r.db).ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, n)
	if err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}
	return nil
}

func (r *TagRepo) LinkToSubscription(ctx context.Context, subscriptionID string, tagIDs []string) error {
	subID, err := parseID(subscriptionID)
	if err != nil {
		return err
	}
	exec := q(ctx, r.db)

	if _, err := exec.ExecContext(ctx, `DELETE FROM subscription_tags WHERE subscription_id = $1`, subID); err != nil {
		return fmt.Errorf("LinkToSubscription: clear: %w", err)
	}
	for _, tagID := range tagIDs {
		tn, err := parseID(tagID)
		if err != nil {
			return err
		}
		const query = `INSERT INTO subscription_tags (subscription_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err := exec.ExecContext(ctx, query, subID, tn); err != nil {
			return fmt.Errorf("LinkToSubscription: insert: %w", err)
		}
	}
	return nil
}

func (r *TagRepo) LinkToBookmark(ctx context.Context, bookmarkID string, tagIDs []string) error {
	bmID, err := parseID(bookmarkID)
	if err != nil {
		return err
	}
	exec := q(ctx, r.db)

	if _, err := exec.ExecContext(ctx, `DELETE FROM bookmark_tags WHERE bookmark_id = $1`, bmID); err != nil {
		return fmt.Errorf("LinkToBookmark: clear: %w", err)
	}
	for _, tagID := range tagIDs {
		tn, err := parseID(tagID)
		if err != nil {
			return err
		}
		const query = `INSERT INTO bookmark_tags (bookmark_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err := exec.ExecContext(ctx, query, bmID, tn); err != nil {
			return fmt.Errorf("LinkToBookmark: insert: %w", err)
		}
	}
	return nil
}
