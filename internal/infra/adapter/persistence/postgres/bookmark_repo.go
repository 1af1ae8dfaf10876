package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"colette/internal/core/model"
	"colette/internal/pagination"
	"colette/internal/query/sqlfilter"
	"colette/internal/repository"
)

const bookmarkColumns = `id, user_id, link, title, thumbnail_url, published_at, author, archived_path, created_at, updated_at`

// BookmarkRepo is the Postgres adapter for repository.BookmarkRepository.
type BookmarkRepo struct{ db querier }

// NewBookmarkRepo constructs a BookmarkRepo.
func NewBookmarkRepo(db querier) repository.BookmarkRepository {
	return &BookmarkRepo{db: db}
}

func scanBookmark(row interface{ Scan(dest ...any) error }) (*model.Bookmark, error) {
	var b model.Bookmark
	var id int64
	if err := row.Scan(
		&id, &b.UserID, &b.Link, &b.Title, &b.ThumbnailURL, &b.PublishedAt,
		&b.Author, &b.ArchivedPath, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.ID = formatID(id)
	return &b, nil
}

func (r *BookmarkRepo) FindByID(ctx context.Context, id string) (*model.Bookmark, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE id = $1`
	b, err := scanBookmark(q(ctx, r.db).QueryRowContext(ctx, query, n))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByID: %w", err)
	}
	return b, nil
}

func (r *BookmarkRepo) FindByLink(ctx context.Context, userID, link string) (*model.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE user_id = $1 AND link = $2`
	b, err := scanBookmark(q(ctx, r.db).QueryRowContext(ctx, query, userID, link))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByLink: %w", err)
	}
	return b, nil
}

func (r *BookmarkRepo) Find(ctx context.Context, params repository.BookmarkFindParams) ([]*model.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE 1 = 1`
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
	if params.Filter != nil {
		frag, fargs, err := sqlfilter.Compile(*params.Filter, sqlfilter.DialectPostgres)
		if err != nil {
			return nil, fmt.Errorf("Find: compile filter: %w", err)
		}
		offset := len(args)
		for _, a := range fargs {
			args = append(args, a)
		}
		query += " AND " + rebindFilter(frag, offset)
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
		args = append(args, cursor.PublishedAt, cursor.PublishedAt, n)
		query += fmt.Sprintf(" AND (published_at < to_timestamp($%d) OR (published_at = to_timestamp($%d) AND id > $%d))",
			len(args)-2, len(args)-1, len(args))
	}
	query += " ORDER BY published_at DESC NULLS LAST, id ASC"

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

	bookmarks := make([]*model.Bookmark, 0, limit)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("Find: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

func (r *BookmarkRepo) Save(ctx context.Context, b *model.Bookmark) error {
	exec := q(ctx, r.db)
	if b.ID == "" {
		const query = `
INSERT INTO bookmarks (user_id, link, title, thumbnail_url, published_at, author, archived_path)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, updated_at`
		var id int64
		err := exec.QueryRowContext(ctx, query,
			b.UserID, b.Link, b.Title, b.ThumbnailURL, b.PublishedAt, b.Author, b.ArchivedPath,
		).Scan(&id, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return fmt.Errorf("Save: insert: %w", err)
		}
		b.ID = formatID(id)
		return nil
	}

	n, err := parseID(b.ID)
	if err != nil {
		return err
	}
	const query = `
UPDATE bookmarks SET
       user_id       = $1,
       link          = $2,
       title         = $3,
       thumbnail_url = $4,
       published_at  = $5,
       author        = $6,
       archived_path = $7,
       updated_at    = now()
WHERE id = $8
RETURNING updated_at`
	err = exec.QueryRowContext(ctx, query,
		b.UserID, b.Link, b.Title, b.ThumbnailURL, b.PublishedAt, b.Author, b.ArchivedPath, n,
	).Scan(&b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("Save: update: %w", err)
	}
	return nil
}

func (r *BookmarkRepo) DeleteByID(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	_, err = q(ctx, r.db).ExecContext(ctx, `DELETE FROM bookmarks WHERE id = $1`, n)
	if err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}
	return nil
}
