package repository

import (
	"context"

	"colette/internal/core/model"
	"colette/internal/query/filter"
)

// BookmarkFindParams mirrors §4.12's generic find signature for Bookmark
// reads: optional id, user scoping, cursor/limit, tag join, and the filter
// DSL compiled by sqlfilter at the repository boundary.
type BookmarkFindParams struct {
	ID       *string
	UserID   *string
	Cursor   *string
	Limit    int
	WithTags bool
	Filter   *filter.BookmarkFilter
}

// BookmarkRepository is the persistence contract for user-saved bookmarks.
type BookmarkRepository interface {
	Find(ctx context.Context, params BookmarkFindParams) ([]*model.Bookmark, error)
	FindByID(ctx context.Context, id string) (*model.Bookmark, error)
	FindByLink(ctx context.Context, userID, link string) (*model.Bookmark, error)
	Save(ctx context.Context, bookmark *model.Bookmark) error
	DeleteByID(ctx context.Context, id string) error
}

// TagFindParams mirrors §4.12's generic find signature for Tag reads.
type TagFindParams struct {
	UserID *string
	Title  *string
}

// TagRepository is the persistence contract for user-scoped bookmark/
// subscription labels (§5 supplemented feature: (user_id, title) unique).
type TagRepository interface {
	Find(ctx context.Context, params TagFindParams) ([]*model.Tag, error)
	FindByID(ctx context.Context, id string) (*model.Tag, error)
	Save(ctx context.Context, tag *model.Tag) error
	DeleteByID(ctx context.Context, id string) error
	// LinkToSubscription replaces a subscription's tag set in its join
	// table with tagIDs.
	LinkToSubscription(ctx context.Context, subscriptionID string, tagIDs []string) error
	// LinkToBookmark replaces a bookmark's tag set in its join table with
	// tagIDs.
	LinkToBookmark(ctx context.Context, bookmarkID string, tagIDs []string) error
}

// CollectionRepository is the persistence contract for saved bookmark
// queries (§5 supplemented feature).
type CollectionRepository interface {
	Find(ctx context.Context, userID string) ([]*model.Collection, error)
	FindByID(ctx context.Context, id string) (*model.Collection, error)
	Save(ctx context.Context, collection *model.Collection) error
	DeleteByID(ctx context.Context, id string) error
}
