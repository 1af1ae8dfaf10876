package postprocess

import "time"

// ProcessedEntry is a feed entry after URL/date normalization; entries that
// fail required-field checks never reach this type (they're dropped by
// Feed before construction).
type ProcessedEntry struct {
	Link         string
	Title        string
	PublishedAt  *time.Time
	Description  string
	Author       string
	ThumbnailURL string
}

// ProcessedFeed is an ExtractedFeed after normalization: title is required
// and non-empty, link has been successfully parsed, and entries are
// deduplicated by link (first occurrence wins).
type ProcessedFeed struct {
	Link    string
	Title   string
	Entries []ProcessedEntry
}

// ProcessedBookmark is an ExtractedBookmark after normalization, anchored
// to the page it was scraped from.
type ProcessedBookmark struct {
	Link         string
	Title        string
	ThumbnailURL string
	PublishedAt  *time.Time
	Author       string
}
