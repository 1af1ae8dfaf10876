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

const feedEntryColumns = `id, feed_id, link, title, published_at, description, author, thumbnail_url`

// FeedEntryRepo is the Postgres adapter for repository.FeedEntryRepository.
type FeedEntryRepo struct{ db querier }

// NewFeedEntryRepo constructs a FeedEntryRepo.
func NewFeedEntryRepo(db querier) repository.FeedEntryRepository {
	return &FeedEntryRepo{db: db}
}

func scanFeedEntry(row interface{ Scan(dest ...any) error }) (*model.FeedEntry, error) {
	var e model.FeedEntry
	var id, feedID int64
	if err := row.Scan(&id, &feedID, &e.Link, &e.Title, &e.PublishedAt, &e.Description, &e.Author, &e.ThumbnailURL); err != nil {
		return nil, err
	}
	e.ID = formatID(id)
	e.FeedID = formatID(feedID)
	return &e, nil
}

func (r *FeedEntryRepo) FindByID(ctx context.Context, id string) (*model.FeedEntry, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + feedEntryColumns + ` FROM feed_entries WHERE id = $1`
	e, err := scanFeedEntry(q(ctx, r.db).QueryRowContext(ctx, query, n))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByID: %w", err)
	}
	return e, nil
}

func (r *FeedEntryRepo) Find(ctx context.Context, params repository.FeedEntryFindParams) ([]*model.FeedEntry, error) {
	query := `SELECT ` + feedEntryColumns + ` FROM feed_entries WHERE 1 = 1`
	var args []any

	if params.FeedID != nil {
		n, err := parseID(*params.FeedID)
		if err != nil {
			return nil, err
		}
		args = append(args, n)
		query += fmt.Sprintf(" AND feed_id = $%d", len(args))
	}
	if params.Filter != nil {
		frag, fargs, err := sqlfilter.Compile(*params.Filter, sqlfilter.DialectPostgres)
		if err != nil {
			return nil, fmt.Errorf("Find: compile filter: %w", err)
		}
		for _, a := range fargs {
			args = append(args, a)
		}
		query += " AND " + rebindFilter(frag, len(args)-len(fargs))
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

	entries := make([]*model.FeedEntry, 0, limit)
	for rows.Next() {
		e, err := scanFeedEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("Find: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// rebindFilter re-numbers a sqlfilter fragment's $1.. placeholders to start
// at offset+1, since the fragment was compiled in isolation but is spliced
// after params already bound above.
func rebindFilter(frag string, offset int) string {
	out := make([]byte, 0, len(frag))
	for i := 0; i < len(frag); i++ {
		if frag[i] == '$' {
			j := i + 1
			n := 0
			for j < len(frag) && frag[j] >= '0' && frag[j] <= '9' {
				n = n*10 + int(frag[j]-'0')
				j++
			}
			if j > i+1 {
				out = append(out, []byte(fmt.Sprintf("$%d", n+offset))...)
				i = j - 1
				continue
			}
		}
		out = append(out, frag[i])
	}
	return string(out)
}

// UpsertBatch inserts or updates entries keyed on (feed_id, link). The
// caller (service.upsertEntriesWithRetry) is responsible for retrying once
// on coreerr.ErrConflict from a concurrent scrape of the same feed.
func (r *FeedEntryRepo) UpsertBatch(ctx context.Context, entries []*model.FeedEntry) ([]string, error) {
	exec := q(ctx, r.db)
	var inserted []string

	for _, e := range entries {
		fn, err := parseID(e.FeedID)
		if err != nil {
			return nil, err
		}

		const query = `
INSERT INTO feed_entries (feed_id, link, title, published_at, description, author, thumbnail_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (feed_id, link) DO UPDATE SET
       title         = EXCLUDED.title,
       published_at  = EXCLUDED.published_at,
       description   = EXCLUDED.description,
       author        = EXCLUDED.author,
       thumbnail_url = EXCLUDED.thumbnail_url
RETURNING id, (xmax = 0) AS inserted`

		var id int64
		var wasInserted bool
		err = exec.QueryRowContext(ctx, query,
			fn, e.Link, e.Title, e.PublishedAt, e.Description, e.Author, e.ThumbnailURL,
		).Scan(&id, &wasInserted)
		if err != nil {
			return nil, fmt.Errorf("UpsertBatch: %w", err)
		}

		e.ID = formatID(id)
		if wasInserted {
			inserted = append(inserted, e.ID)
		}
	}

	return inserted, nil
}

func (r *FeedEntryRepo) MarkRead(ctx context.Context, read model.ReadEntry) error {
	subID, err := parseID(read.SubscriptionID)
	if err != nil {
		return err
	}
	entryID, err := parseID(read.FeedEntryID)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO read_entries (subscription_id, feed_entry_id, user_id)
VALUES ($1, $2, $3)
ON CONFLICT (subscription_id, feed_entry_id) DO NOTHING`
	_, err = q(ctx, r.db).ExecContext(ctx, query, subID, entryID, read.UserID)
	if err != nil {
		return fmt.Errorf("MarkRead: %w", err)
	}
	return nil
}

func (r *FeedEntryRepo) MarkUnread(ctx context.Context, subscriptionID, feedEntryID string) error {
	subID, err := parseID(subscriptionID)
	if err != nil {
		return err
	}
	entryID, err := parseID(feedEntryID)
	if err != nil {
		return err
	}
	const query = `DELETE FROM read_entries WHERE subscription_id = $1 AND feed_entry_id = $2`
	_, err = q(ctx, r.db).ExecContext(ctx, query, subID, entryID)
	if err != nil {
		return fmt.Errorf("MarkUnread: %w", err)
	}
	return nil
}
