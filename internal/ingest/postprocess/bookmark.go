package postprocess

import (
	"net/url"
	"strings"
	"time"

	"colette/internal/core/coreerr"
	"colette/internal/ingest/bookmark"
)

// Bookmark normalizes an ExtractedBookmark scraped from pageURL. pageURL is
// the bookmark's own link and the base against which a relative thumbnail
// URL is resolved.
func Bookmark(in *bookmark.ExtractedBookmark, pageURL string) (*ProcessedBookmark, error) {
	link, ok := normalizeURL(pageURL)
	if !ok {
		return nil, coreerr.ValidationError{Field: "link", Message: "bookmark link failed to parse"}
	}

	var published *time.Time
	if t, ok := parseDate(in.Published); ok {
		published = &t
	}

	thumbnail := resolveThumbnail(in.Thumbnail, link)

	return &ProcessedBookmark{
		Link:         link,
		Title:        in.Title,
		ThumbnailURL: thumbnail,
		PublishedAt:  published,
		Author:       in.Author,
	}, nil
}

func resolveThumbnail(raw, base string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}
