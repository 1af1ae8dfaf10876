package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"colette/internal/core/model"
	"colette/internal/pagination"
	"colette/internal/repository"
)

const subscriptionColumns = `id, user_id, feed_id, title, description`

// SubscriptionRepo is the Postgres adapter for repository.SubscriptionRepository.
type SubscriptionRepo struct{ db querier }

// NewSubscriptionRepo constructs a SubscriptionRepo.
func NewSubscriptionRepo(db querier) repository.SubscriptionRepository {
	return &SubscriptionRepo{db: db}
}

func scanSubscription(row interface{ Scan(dest ...any) error }) (*model.Subscription, error) {
	var s model.Subscription
	var id, feedID int64
	if err := row.Scan(&id, &s.UserID, &feedID, &s.Title, &s.Description); err != nil {
		return nil, err
	}
	s.ID = formatID(id)
	s.FeedID = formatID(feedID)
	return &s, nil
}

func (r *SubscriptionRepo) FindByID(ctx context.Context, id string) (*model.Subscription, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	s, err := scanSubscription(q(ctx, r.db).QueryRowContext(ctx, query, n))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByID: %w", err)
	}
	return s, nil
}

func (r *SubscriptionRepo) FindBySourceAndUser(ctx context.Context, userID, feedID string) (*model.Subscription, error) {
	fn, err := parseID(feedID)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1 AND feed_id = $2`
	s, err := scanSubscription(q(ctx, r.db).QueryRowContext(ctx, query, userID, fn))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindBySourceAndUser: %w", err)
	}
	return s, nil
}

func (r *SubscriptionRepo) Find(ctx context.Context, params repository.SubscriptionFindParams) ([]*model.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE 1 = 1`
	var args []any

	if params.ID != nil {
		n, err := parseID(*params.ID)
		if err != nil {
			return nil, err
		}
		args = append(args, n)
		query += fmt.Sprintf(" AND id = $%d", len(args))
	}
	if params.UserID != nil {
		args = append(args, *params.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if params.FeedID != nil {
		n, err := parseID(*params.FeedID)
		if err != nil {
			return nil, err
		}
		args = append(args, n)
		query += fmt.Sprintf(" AND feed_id = $%d", len(args))
	}
	if params.Cursor != nil {
		var cursor pagination.TitleCursor
		if err := pagination.DecodeCursor(*params.Cursor, &cursor); err != nil {
			return nil, err
		}
		args = append(args, cursor.Title, cursor.Title)
		query += fmt.Sprintf(" AND (title > $%d OR (title = $%d AND id > ", len(args)-1, len(args))
		args = append(args, cursor.ID)
		query += fmt.Sprintf("$%d))", len(args))
	}
	query += " ORDER BY title ASC, id ASC"

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

	subs := make([]*model.Subscription, 0, limit)
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("Find: %w", err)
		}
		subs = append(subs, s)
	}
	// WithTags is resolved by the caller through TagRepository rather than
	// joined here, consistent with this codebase's per-entity repository
	// split (service.Service already composes Tag lookups across calls).
	return subs, rows.Err()
}

func (r *SubscriptionRepo) Save(ctx context.Context, s *model.Subscription) error {
	exec := q(ctx, r.db)
	fn, err := parseID(s.FeedID)
	if err != nil {
		return err
	}

	if s.ID == "" {
		const query = `
INSERT INTO subscriptions (user_id, feed_id, title, description)
VALUES ($1, $2, $3, $4)
RETURNING id`
		var id int64
		err := exec.QueryRowContext(ctx, query, s.UserID, fn, s.Title, s.Description).Scan(&id)
		if err != nil {
			return fmt.Errorf("Save: insert: %w", err)
		}
		s.ID = formatID(id)
		return nil
	}

	n, err := parseID(s.ID)
	if err != nil {
		return err
	}
	const query = `
UPDATE subscriptions SET user_id = $1, feed_id = $2, title = $3, description = $4
WHERE id = $5`
	_, err = exec.ExecContext(ctx, query, s.UserID, fn, s.Title, s.Description, n)
	if err != nil {
		return fmt.Errorf("Save: update: %w", err)
	}
	return nil
}

func (r *SubscriptionRepo) DeleteByID(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	_, err = q(ctx, r.db).ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, n)
	if err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}
	return nil
}
