package feed

import "time"

// ExtractedEntry is one item/entry pulled out of a feed document, before
// postprocessing normalizes URLs/dates and drops incomplete records.
type ExtractedEntry struct {
	Link        string
	Title       string
	Published   string // raw, unparsed date string; postprocess.Feed parses it
	Updated     string // raw, unparsed; Atom's fallback when Published is absent
	Description string
	Author      string
	Thumbnail   string

	// AdditionalProperties preserves unknown/namespaced elements keyed by
	// qualified tag name, with repeated occurrences promoted to []any, so
	// media/itunes-style extensions survive a round-trip even though this
	// package only maps a handful of them into typed fields.
	AdditionalProperties map[string]any
}

// ExtractedFeed is the normalized output of the feed parser (C1), before
// postprocessing.
type ExtractedFeed struct {
	Link    string
	Title   string
	Entries []ExtractedEntry

	AdditionalProperties map[string]any

	// ParsedAt is stamped by Parse for callers that want a reference time
	// independent of any entry's published date.
	ParsedAt time.Time
}
