package model

import (
	"time"

	"colette/internal/query/filter"
)

// Bookmark is a user-saved URL with extracted metadata.
type Bookmark struct {
	ID            string
	UserID        string
	Link          string
	Title         string
	ThumbnailURL  string
	PublishedAt   *time.Time
	Author        string
	ArchivedPath  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Tag is a user-scoped label attached to bookmarks or subscriptions via join
// tables.
type Tag struct {
	ID     string
	UserID string
	Title  string
}

// Collection is a saved bookmark query: a title plus a serialized filter.
type Collection struct {
	ID     string
	UserID string
	Title  string
	Filter filter.BookmarkFilter
}
