package repository

import (
	"context"
	"time"

	"colette/internal/core/model"
	"colette/internal/query/filter"
)

// FeedFindParams is the optional-field query struct every repository
// contract's find accepts, per §4.12: only the fields relevant to Feed are
// populated (id, cursor, limit); user_id/with_tags/filter do not apply to a
// process-wide shared entity.
type FeedFindParams struct {
	ID     *string
	Cursor *string
	Limit  int
}

// OutdatedFeedParams selects feeds due for a refresh scheduler tick (§4.10
// step 1): refreshed_at is null or has aged past refresh_interval_min.
type OutdatedFeedParams struct {
	Now       time.Time
	BatchSize int
}

// FeedRepository is the persistence contract the scraper pipeline and
// scheduler depend on. Every method is a suspending operation.
type FeedRepository interface {
	Find(ctx context.Context, params FeedFindParams) ([]*model.Feed, error)
	FindByID(ctx context.Context, id string) (*model.Feed, error)
	// FindBySourceURL supports the ingestion service's upsert-keyed-on-
	// source_url semantics (§3 Feed invariant).
	FindBySourceURL(ctx context.Context, sourceURL string) (*model.Feed, error)
	// FindOutdated returns feeds due for a refresh sweep, ordered by
	// refreshed_at ASC NULLS FIRST, capped at params.BatchSize (§4.10 step 1).
	FindOutdated(ctx context.Context, params OutdatedFeedParams) ([]*model.Feed, error)
	// Save inserts or updates, identity carried by entity.ID; an empty ID
	// means insert.
	Save(ctx context.Context, feed *model.Feed) error
	DeleteByID(ctx context.Context, id string) error
}

// SubscriptionFindParams mirrors §4.12's generic find signature for
// Subscription reads.
type SubscriptionFindParams struct {
	ID       *string
	UserID   *string
	FeedID   *string
	Cursor   *string
	Limit    int
	WithTags bool
}

// SubscriptionRepository is the persistence contract for user feed bindings.
type SubscriptionRepository interface {
	Find(ctx context.Context, params SubscriptionFindParams) ([]*model.Subscription, error)
	FindByID(ctx context.Context, id string) (*model.Subscription, error)
	FindBySourceAndUser(ctx context.Context, userID, feedID string) (*model.Subscription, error)
	Save(ctx context.Context, sub *model.Subscription) error
	DeleteByID(ctx context.Context, id string) error
}

// FeedEntryFindParams mirrors §4.12's generic find signature for
// FeedEntry reads, with the filter DSL and cursor wired in for the read
// path described in §2's data-flow summary.
type FeedEntryFindParams struct {
	FeedID *string
	Cursor *string
	Limit  int
	Filter *filter.SubscriptionEntryFilter
}

// FeedEntryRepository is the persistence contract for feed entries.
type FeedEntryRepository interface {
	Find(ctx context.Context, params FeedEntryFindParams) ([]*model.FeedEntry, error)
	FindByID(ctx context.Context, id string) (*model.FeedEntry, error)
	// UpsertBatch inserts or updates entries keyed on (feed_id, link) and
	// reports which ones were newly inserted, for P2's uniqueness invariant.
	UpsertBatch(ctx context.Context, entries []*model.FeedEntry) (insertedIDs []string, err error)
	MarkRead(ctx context.Context, read model.ReadEntry) error
	MarkUnread(ctx context.Context, subscriptionID, feedEntryID string) error
}
