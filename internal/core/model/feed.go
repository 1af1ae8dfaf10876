package model

import "time"

// FeedStatus is the lifecycle state of a Feed.
type FeedStatus string

const (
	FeedStatusPending    FeedStatus = "pending"
	FeedStatusHealthy    FeedStatus = "healthy"
	FeedStatusRefreshing FeedStatus = "refreshing"
	FeedStatusFailed     FeedStatus = "failed"
)

func (s FeedStatus) String() string { return string(s) }

// DefaultRefreshIntervalMin is the baseline refresh cadence applied to a
// newly created feed and restored whenever a scrape yields new entries.
const DefaultRefreshIntervalMin = 60

// MaxRefreshIntervalMin is the cap the adaptive cadence in the scheduler
// backs off to.
const MaxRefreshIntervalMin = 24 * 60

// Feed is a syndicated content source shared across every subscribing user,
// keyed on SourceURL.
type Feed struct {
	ID                 string
	SourceURL          string
	Link               string
	Title              string
	Description        string
	RefreshIntervalMin uint32
	Status             FeedStatus
	RefreshedAt        *time.Time
	IsCustom           bool

	// ConsecutiveEmptyScrapes is stored by the repository in its own column
	// so the scheduler's adaptive cadence in §4.10 survives process restarts.
	ConsecutiveEmptyScrapes int
}

// FeedEntry is one article inside a Feed.
type FeedEntry struct {
	ID           string
	FeedID       string
	Link         string
	Title        string
	PublishedAt  *time.Time
	Description  string
	Author       string
	ThumbnailURL string
}

// Subscription binds a user to a shared Feed with a local title/description.
type Subscription struct {
	ID          string
	UserID      string
	FeedID      string
	Title       string
	Description string
}

// ReadEntry records that a subscription's user has read a feed entry.
// Presence of the row is the read marker; there is no boolean column.
type ReadEntry struct {
	SubscriptionID string
	FeedEntryID    string
	UserID         string
}
