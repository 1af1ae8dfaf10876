// Package opml reads and writes OPML 2.0 subscription lists, the format
// §4.6 describes: outlines with an xmlUrl attribute are feeds, parent
// outlines without one are tags whose descendants inherit them.
//
// Grounded on the OPML outline struct shape used by the phoenix-rss example
// (other_examples), generalized to preserve the tag-nesting decode/encode
// round-trip the teacher's example flattened away.
package opml

import (
	"encoding/xml"

	"colette/internal/core/coreerr"
)

// Feed is one subscription decoded from (or to be encoded into) an OPML
// outline leaf.
type Feed struct {
	Title     string
	Link      string
	SourceURL string
	Tags      []string
}

type document struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    head     `xml:"head"`
	Body    body     `xml:"body"`
}

type head struct {
	Title string `xml:"title"`
}

type body struct {
	Outlines []outline `xml:"outline"`
}

type outline struct {
	Text     string    `xml:"text,attr"`
	Title    string    `xml:"title,attr,omitempty"`
	Type     string    `xml:"type,attr,omitempty"`
	XMLURL   string    `xml:"xmlUrl,attr,omitempty"`
	HTMLURL  string    `xml:"htmlUrl,attr,omitempty"`
	Outlines []outline `xml:"outline,omitempty"`
}

// Decode parses an OPML document into a flat list of feeds, each carrying
// the set of tag names from every ancestor outline that wasn't itself a
// feed.
func Decode(data []byte) ([]Feed, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, coreerr.ErrCodec
	}

	var feeds []Feed
	collectFeeds(doc.Body.Outlines, nil, &feeds)
	return feeds, nil
}

func collectFeeds(outlines []outline, tags []string, out *[]Feed) {
	for _, o := range outlines {
		if o.XMLURL != "" {
			title := o.Title
			if title == "" {
				title = o.Text
			}
			*out = append(*out, Feed{
				Title:     title,
				Link:      o.HTMLURL,
				SourceURL: o.XMLURL,
				Tags:      append([]string(nil), tags...),
			})
			continue
		}

		childTags := tags
		if o.Text != "" {
			childTags = append(append([]string(nil), tags...), o.Text)
		}
		collectFeeds(o.Outlines, childTags, out)
	}
}

// Encode writes feeds as an OPML 2.0 document. Feeds with no tags become
// direct children of body; a feed carrying tags is nested once along the
// path of its own ordered tag list, mirroring the netscape package's
// groupByTag tree so a multi-tagged feed is written exactly once instead of
// duplicated under every tag it carries (decode recovers the full tag set
// by walking the ancestor outline chain back down to the leaf).
func Encode(feeds []Feed) ([]byte, error) {
	doc := document{
		Version: "2.0",
		Head:    head{Title: "Colette"},
	}

	doc.Body.Outlines = buildOutlines(groupByTag(feeds))

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, coreerr.ErrCodec
	}
	return append([]byte(xml.Header), out...), nil
}

// tagGroup is one nesting level of the encode-side tag tree: feeds that
// stop at this level, plus child groups keyed by tag name in first-seen
// order.
type tagGroup struct {
	feeds    []Feed
	children map[string]*tagGroup
	order    []string
}

func newTagGroup() *tagGroup {
	return &tagGroup{children: make(map[string]*tagGroup)}
}

func groupByTag(feeds []Feed) *tagGroup {
	root := newTagGroup()
	for _, f := range feeds {
		node := root
		for _, tag := range f.Tags {
			child, ok := node.children[tag]
			if !ok {
				child = newTagGroup()
				node.children[tag] = child
				node.order = append(node.order, tag)
			}
			node = child
		}
		node.feeds = append(node.feeds, f)
	}
	return root
}

func buildOutlines(g *tagGroup) []outline {
	var out []outline
	for _, tag := range g.order {
		out = append(out, outline{
			Text:     tag,
			Outlines: buildOutlines(g.children[tag]),
		})
	}
	for _, f := range g.feeds {
		out = append(out, feedOutline(f))
	}
	return out
}

func feedOutline(f Feed) outline {
	return outline{
		Text:    f.Title,
		Title:   f.Title,
		Type:    "rss",
		XMLURL:  f.SourceURL,
		HTMLURL: f.Link,
	}
}
