// Package feed decodes an Atom or RSS 2.0 byte stream into an ExtractedFeed,
// including the namespaced media/dc extensions the default field mapping
// doesn't cover.
//
// Grounded on the teacher's internal/infra/scraper/rss.go, which wraps
// gofeed.Parser behind a circuit breaker and retry policy for a single
// "fetch the feed" responsibility; this package narrows to the pure decode
// step (gofeed.Parser.Parse on an already-fetched io.Reader) and generalizes
// the field mapping to the Atom media:group override chain and RSS
// dc:creator/enclosure rules from §4.1, which the teacher's simpler
// Title/URL/Content/PublishedAt mapping does not need.
package feed

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"colette/internal/core/coreerr"
)

// Parser decodes feed documents. The zero value is ready to use.
type Parser struct {
	gofeed *gofeed.Parser
}

// NewParser constructs a Parser.
func NewParser() *Parser {
	return &Parser{gofeed: gofeed.NewParser()}
}

// Parse decodes r into an ExtractedFeed. gofeed sniffs the root element to
// pick the Atom or RSS 2.0 code path internally; the field mapping below
// expresses the per-dialect rules in §4.1 over the resulting gofeed.Feed.
func (p *Parser) Parse(r io.Reader) (*ExtractedFeed, error) {
	parser := p.gofeed
	if parser == nil {
		parser = gofeed.NewParser()
	}

	f, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("feed: parse: %w", err)
	}
	if f.FeedType == "" {
		return nil, coreerr.ErrUnsupportedFeed
	}

	out := &ExtractedFeed{
		Title:                f.Title,
		Link:                 feedLink(f),
		AdditionalProperties: collectExtensions(f.Extensions),
		ParsedAt:             time.Now().UTC(),
	}

	out.Entries = make([]ExtractedEntry, 0, len(f.Items))
	for _, item := range f.Items {
		out.Entries = append(out.Entries, mapEntry(f.FeedType, item))
	}

	return out, nil
}

// feedLink picks the feed's primary link. gofeed already resolves Atom's
// rel="alternate" search and RSS's channel/link into Feed.Link.
func feedLink(f *gofeed.Feed) string {
	return f.Link
}

func mapEntry(feedType string, item *gofeed.Item) ExtractedEntry {
	if strings.EqualFold(feedType, "atom") {
		return mapAtomEntry(item)
	}
	return mapRSSEntry(item)
}

// mapAtomEntry implements §4.1's Atom per-entry rule: title/description may
// be overridden by a media:group's media:title/media:description, and the
// thumbnail comes from the first media:group/media:thumbnail, falling back
// to a bare media:thumbnail. Author is every author/name joined by comma.
// Updated is carried alongside Published so postprocess can fall back to it
// when an entry has no published timestamp of its own.
func mapAtomEntry(item *gofeed.Item) ExtractedEntry {
	title := item.Title
	description := item.Description
	if description == "" {
		description = item.Content
	}

	var thumbnail string
	if media, ok := extensionChild(item.Extensions, "media", "group"); ok {
		if t, ok := childValue(media.Children, "title"); ok && t != "" {
			title = t
		}
		if d, ok := childValue(media.Children, "description"); ok && d != "" {
			description = d
		}
		if url, ok := childAttr(media.Children, "thumbnail", "url"); ok {
			thumbnail = url
		}
	}
	if thumbnail == "" {
		if url, ok := extensionAttr(item.Extensions, "media", "thumbnail", "url"); ok {
			thumbnail = url
		}
	}

	return ExtractedEntry{
		Link:                 item.Link,
		Title:                title,
		Published:            item.Published,
		Updated:              item.Updated,
		Description:          description,
		Author:               joinAuthors(item.Authors),
		Thumbnail:            thumbnail,
		AdditionalProperties: collectExtensions(item.Extensions),
	}
}

// mapRSSEntry implements §4.1's RSS per-item rule: author is dc:creator
// falling back to the plain author element; thumbnail comes from any
// enclosure whose type starts with "image/".
func mapRSSEntry(item *gofeed.Item) ExtractedEntry {
	author := item.Author
	if author == nil {
		if len(item.Authors) > 0 {
			author = item.Authors[0]
		}
	}
	authorName := ""
	if author != nil {
		authorName = author.Name
	}
	if creator, ok := extensionValue(item.Extensions, "dc", "creator"); ok && creator != "" {
		authorName = creator
	}

	var thumbnail string
	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") {
			thumbnail = enc.URL
			break
		}
	}

	return ExtractedEntry{
		Link:                 item.Link,
		Title:                item.Title,
		Published:            item.Published,
		Description:          item.Description,
		Author:               authorName,
		Thumbnail:            thumbnail,
		AdditionalProperties: collectExtensions(item.Extensions),
	}
}

func joinAuthors(authors []*gofeed.Person) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if a != nil {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ",")
}

// extensionChild looks up a single nested extension by namespace/name path,
// e.g. extensionChild(exts, "media", "group").
func extensionChild(exts ext.Extensions, ns, name string) (*ext.Extension, bool) {
	if exts == nil {
		return nil, false
	}
	group, ok := exts[ns]
	if !ok {
		return nil, false
	}
	items, ok := group[name]
	if !ok || len(items) == 0 {
		return nil, false
	}
	return &items[0], true
}

// extensionValue reads the text value of a namespace/name extension.
func extensionValue(exts ext.Extensions, ns, name string) (string, bool) {
	e, ok := extensionChild(exts, ns, name)
	if !ok {
		return "", false
	}
	return e.Value, true
}

// extensionAttr reads an attribute of a namespace/name extension.
func extensionAttr(exts ext.Extensions, ns, name, attr string) (string, bool) {
	e, ok := extensionChild(exts, ns, name)
	if !ok {
		return "", false
	}
	v, ok := e.Attrs[attr]
	return v, ok
}

// childValue reads the text value of a single-level (name -> []Extension)
// children map, the shape of ext.Extension.Children.
func childValue(children map[string][]ext.Extension, name string) (string, bool) {
	items, ok := children[name]
	if !ok || len(items) == 0 {
		return "", false
	}
	return items[0].Value, true
}

// childAttr reads an attribute off a single-level children map entry.
func childAttr(children map[string][]ext.Extension, name, attr string) (string, bool) {
	items, ok := children[name]
	if !ok || len(items) == 0 {
		return "", false
	}
	v, ok := items[0].Attrs[attr]
	return v, ok
}
