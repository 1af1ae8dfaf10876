// Package netscape reads and writes the Netscape Bookmark File format, the
// loosely-HTML export/import format browsers and readers use for
// bookmarks. §4.6 specifies the exact preamble and the folder/bookmark
// element meaning.
//
// The format is not well-formed XML (unclosed <p>, <dt>), so decoding walks
// raw HTML tokens via golang.org/x/net/html rather than encoding/xml,
// generalizing the same token-stream approach goquery/cascadia already
// bring into this module for HTML parsing elsewhere in the ingestion core.
package netscape

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"colette/internal/core/coreerr"
)

// Bookmark is one <A HREF=…> entry decoded from (or to be encoded into) a
// Netscape bookmark file.
type Bookmark struct {
	Title        string
	Link         string
	AddDate      *time.Time
	LastVisit    *time.Time
	LastModified *time.Time
	Tags         []string
}

const (
	doctype     = `<!DOCTYPE NETSCAPE-Bookmark-file-1>`
	contentType = `<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">`
)

// Decode walks r's token stream, treating every <H3> as the start of a
// folder (tag) and every <A HREF=…> as a bookmark carrying the full stack
// of ancestor folder names as its tags.
func Decode(r io.Reader) ([]Bookmark, error) {
	z := html.NewTokenizer(r)

	var (
		tagStack   []string
		pendingTag string
		hasPending bool
		bookmarks  []Bookmark
	)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, coreerr.ErrCodec
			}
			return bookmarks, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "h3":
				hasPending = true
				pendingTag = ""
			case "dl":
				if hasPending {
					tagStack = append(tagStack, strings.TrimSpace(pendingTag))
					hasPending = false
				}
			case "a":
				attrs := parseAttrs(z, hasAttr)
				title := strings.TrimSpace(readText(z))
				bookmarks = append(bookmarks, Bookmark{
					Title:        title,
					Link:         attrs["href"],
					AddDate:      unixAttr(attrs, "add_date"),
					LastVisit:    unixAttr(attrs, "last_visit"),
					LastModified: unixAttr(attrs, "last_modified"),
					Tags:         append([]string(nil), tagStack...),
				})
			}

		case html.TextToken:
			if hasPending {
				pendingTag += string(z.Text())
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "dl" && len(tagStack) > 0 {
				tagStack = tagStack[:len(tagStack)-1]
			}
		}
	}
}

func parseAttrs(z *html.Tokenizer, hasAttr bool) map[string]string {
	out := make(map[string]string)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		out[strings.ToLower(string(key))] = string(val)
	}
	return out
}

// readText consumes tokens up to (but not including) the next tag, joining
// any text content encountered; Netscape files put the title as plain text
// immediately after <A ...>.
func readText(z *html.Tokenizer) string {
	var sb strings.Builder
	for {
		tt := z.Next()
		if tt != html.TextToken {
			return sb.String()
		}
		sb.Write(z.Text())
	}
}

func unixAttr(attrs map[string]string, key string) *time.Time {
	raw, ok := attrs[key]
	if !ok || raw == "" {
		return nil
	}
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	t := time.Unix(secs, 0).UTC()
	return &t
}

// Encode writes bookmarks as a Netscape bookmark file. Indentation is 4
// spaces per folder level; attributes are only emitted when present.
// Grounded directly on original_source/crates/netscape/src/writer.rs's
// DOCTYPE/meta/TITLE/H1/DL<p> preamble and per-item attribute assembly.
func Encode(w io.Writer, bookmarks []Bookmark) error {
	if _, err := fmt.Fprintln(w, doctype); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, contentType); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "<TITLE>Bookmarks</TITLE>"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "<H1>Bookmarks</H1>"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "<DL><p>"); err != nil {
		return err
	}

	tree := groupByTag(bookmarks)
	if err := writeGroup(w, tree, 1); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, "</DL><p>")
	return err
}

// group is one folder level: bookmarks with no further tag, plus
// sub-folders keyed by tag name.
type group struct {
	bookmarks []Bookmark
	children  map[string]*group
	order     []string
}

func newGroup() *group {
	return &group{children: make(map[string]*group)}
}

func groupByTag(bookmarks []Bookmark) *group {
	root := newGroup()
	for _, b := range bookmarks {
		node := root
		for _, tag := range b.Tags {
			child, ok := node.children[tag]
			if !ok {
				child = newGroup()
				node.children[tag] = child
				node.order = append(node.order, tag)
			}
			node = child
		}
		node.bookmarks = append(node.bookmarks, b)
	}
	return root
}

func writeGroup(w io.Writer, g *group, level int) error {
	indent := strings.Repeat("    ", level)

	for _, tag := range g.order {
		child := g.children[tag]
		if _, err := fmt.Fprintf(w, "%s<DT><H3>%s</H3>\n", indent, tag); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s<DL><p>\n", indent); err != nil {
			return err
		}
		if err := writeGroup(w, child, level+1); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s</DL><p>\n", indent); err != nil {
			return err
		}
	}

	for _, b := range g.bookmarks {
		attrs := bookmarkAttrs(b)
		if attrs == "" {
			if _, err := fmt.Fprintf(w, "%s<DT><A>%s</A>\n", indent, b.Title); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s<DT><A %s>%s</A>\n", indent, attrs, b.Title); err != nil {
			return err
		}
	}

	return nil
}

func bookmarkAttrs(b Bookmark) string {
	var parts []string
	if b.AddDate != nil {
		parts = append(parts, fmt.Sprintf(`ADD_DATE="%d"`, b.AddDate.Unix()))
	}
	if b.Link != "" {
		parts = append(parts, fmt.Sprintf(`HREF="%s"`, b.Link))
	}
	if b.LastVisit != nil {
		parts = append(parts, fmt.Sprintf(`LAST_VISIT="%d"`, b.LastVisit.Unix()))
	}
	if b.LastModified != nil {
		parts = append(parts, fmt.Sprintf(`LAST_MODIFIED="%d"`, b.LastModified.Unix()))
	}
	return strings.Join(parts, " ")
}
