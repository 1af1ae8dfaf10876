package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"colette/internal/core/model"
	"colette/internal/repository"
)

// CollectionRepo is the Postgres adapter for repository.CollectionRepository.
type CollectionRepo struct{ db querier }

// NewCollectionRepo constructs a CollectionRepo.
func NewCollectionRepo(db querier) repository.CollectionRepository {
	return &CollectionRepo{db: db}
}

func scanCollection(row interface{ Scan(dest ...any) error }) (*model.Collection, error) {
	var c model.Collection
	var id int64
	var filterJSON []byte
	if err := row.Scan(&id, &c.UserID, &c.Title, &filterJSON); err != nil {
		return nil, err
	}
	c.ID = formatID(id)
	if len(filterJSON) > 0 {
		if err := json.Unmarshal(filterJSON, &c.Filter); err != nil {
			return nil, fmt.Errorf("unmarshal filter: %w", err)
		}
	}
	return &c, nil
}

func (r *CollectionRepo) FindByID(ctx context.Context, id string) (*model.Collection, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, user_id, title, filter FROM collections WHERE id = $1`
	c, err := scanCollection(q(ctx, r.db).QueryRowContext(ctx, query, n))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByID: %w", err)
	}
	return c, nil
}

func (r *CollectionRepo) Find(ctx context.Context, userID string) ([]*model.Collection, error) {
	query := `SELECT id, user_id, title, filter FROM collections WHERE user_id = $1 ORDER BY title ASC`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("Find: %w", err)
	}
	defer func() { _ = rows.Close() }()

	collections := make([]*model.Collection, 0, 16)
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("Find: %w", err)
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (r *CollectionRepo) Save(ctx context.Context, c *model.Collection) error {
	filterJSON, err := json.Marshal(c.Filter)
	if err != nil {
		return fmt.Errorf("Save: marshal filter: %w", err)
	}

	exec := q(ctx, r.db)
	if c.ID == "" {
		const query = `INSERT INTO collections (user_id, title, filter) VALUES ($1, $2, $3) RETURNING id`
		var id int64
		if err := exec.QueryRowContext(ctx, query, c.UserID, c.Title, filterJSON).Scan(&id); err != nil {
			return fmt.Errorf("Save: insert: %w", err)
		}
		c.ID = formatID(id)
		return nil
	}

	n, err := parseID(c.ID)
	if err != nil {
		return err
	}
	const query = `UPDATE collections SET user_id = $1, title = $2, filter = $3 WHERE id = $4`
	if _, err := exec.ExecContext(ctx, query, c.UserID, c.Title, filterJSON, n); err != nil {
		return fmt.Errorf("Save: update: %w", err)
	}
	return nil
}

func (r *CollectionRepo) DeleteByID(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	_, err = q(ctx, r.db).ExecContext(ctx, `DELETE FROM collections WHERE id = $1`, n)
	if err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}
	return nil
}
