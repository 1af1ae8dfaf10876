// Package postprocess normalizes the raw records C1/C2 extract: URLs are
// absolutized, dates are parsed through a lenient fallback chain, entries
// are deduplicated, and records missing a required field are dropped.
//
// Grounded on the teacher's scraper date/URL helpers (parseDate,
// makeAbsoluteURL in internal/infra/scraper/webflow.go), generalized into
// the feed/bookmark-wide normalization step §4.4 describes as its own
// pipeline stage rather than inline scraper logic.
package postprocess

import (
	"time"

	"colette/internal/core/coreerr"
	"colette/internal/ingest/feed"
)

// Feed normalizes an ExtractedFeed. The feed's own link must parse and its
// title must be non-empty, or the whole record fails; per-entry failures
// only drop that entry.
func Feed(in *feed.ExtractedFeed) (*ProcessedFeed, error) {
	if in.Title == "" {
		return nil, coreerr.ValidationError{Field: "title", Message: "feed title is required"}
	}

	link, ok := normalizeURL(in.Link)
	if !ok {
		return nil, coreerr.ValidationError{Field: "link", Message: "feed link failed to parse"}
	}

	seen := make(map[string]bool, len(in.Entries))
	entries := make([]ProcessedEntry, 0, len(in.Entries))
	for _, e := range in.Entries {
		pe, ok := entry(e)
		if !ok {
			continue
		}
		if seen[pe.Link] {
			continue
		}
		seen[pe.Link] = true
		entries = append(entries, pe)
	}

	return &ProcessedFeed{Link: link, Title: in.Title, Entries: entries}, nil
}

// entry normalizes a single ExtractedEntry. title and link are required;
// any other field failing soft-fails (published becomes nil, thumbnail
// becomes empty) rather than dropping the entry. Published falls back to
// Atom's updated timestamp when the entry has no published date of its own.
func entry(e feed.ExtractedEntry) (ProcessedEntry, bool) {
	if e.Title == "" {
		return ProcessedEntry{}, false
	}

	link, ok := normalizeURL(e.Link)
	if !ok {
		return ProcessedEntry{}, false
	}

	var published *time.Time
	if t, ok := parseDate(e.Published); ok {
		published = &t
	} else if t, ok := parseDate(e.Updated); ok {
		published = &t
	}

	thumbnail := ""
	if t, ok := normalizeURL(e.Thumbnail); ok {
		thumbnail = t
	}

	return ProcessedEntry{
		Link:         link,
		Title:        e.Title,
		PublishedAt:  published,
		Description:  e.Description,
		Author:       e.Author,
		ThumbnailURL: thumbnail,
	}, true
}
