// Package job defines the job model and the in-process queue the scheduler
// and scrape workers communicate through.
//
// The shape is grounded on the producer/consumer pair in the pack's Rust
// queue crate (an mpsc channel split into a push half and a suspending-pop
// half) translated onto a Go buffered channel, and on the teacher's
// resilience/retry package for the backoff schedule.
package job

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the lifecycle state of a Job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) String() string { return string(s) }

// ParseStatus parses a persisted status string, mirroring the teacher's
// FromStr-style constructors elsewhere in the domain layer.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed:
		return Status(s), nil
	default:
		return "", fmt.Errorf("job: unknown status %q", s)
	}
}

// Job is a unit of deferred work tracked by the queue.
type Job struct {
	ID              string
	Type            string
	Data            json.RawMessage
	Status          Status
	GroupIdentifier string
	Message         string
	// Attempts counts transient-failure requeues, driving DelayForAttempt;
	// it resets to 0 only on a fresh insert.
	Attempts  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewJob constructs a Pending job from a typed payload, marshaling it to
// JSON for storage.
func NewJob(jobType string, data any) (*Job, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("job: marshal payload: %w", err)
	}
	return &Job{
		Type:   jobType,
		Data:   raw,
		Status: StatusPending,
	}, nil
}

// Decode unmarshals the job's payload into dst.
func (j *Job) Decode(dst any) error {
	return json.Unmarshal(j.Data, dst)
}

// Job type names used across the scheduler, pipeline, and ingestion service.
const (
	TypeScrapeFeed      = "scrape_feed"
	TypeScrapeBookmark  = "scrape_bookmark"
	TypeImportFeeds     = "import_feeds"
	TypeImportBookmarks = "import_bookmarks"
)

// ScrapeFeedPayload is the Data payload of a TypeScrapeFeed job.
type ScrapeFeedPayload struct {
	FeedID    string `json:"feed_id"`
	SourceURL string `json:"source_url"`
}

// ScrapeBookmarkPayload is the Data payload of a TypeScrapeBookmark job.
type ScrapeBookmarkPayload struct {
	BookmarkID string `json:"bookmark_id"`
	Link       string `json:"link"`
}

// ImportFeedsPayload fans out per-URL scrape jobs after an OPML import.
type ImportFeedsPayload struct {
	URLs []string `json:"urls"`
}

// ImportBookmarksPayload fans out per-URL scrape jobs after a Netscape import.
type ImportBookmarksPayload struct {
	URLs   []string `json:"urls"`
	UserID string   `json:"user_id"`
}
