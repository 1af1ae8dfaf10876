// Package detect discovers candidate feed URLs advertised inside an HTML
// page via <link rel="alternate"> tags, the same document-walking shape as
// the bookmark extractor but over a different selector/attribute pair.
package detect

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// feedMIMETypes are the §4.3 type allowlist for <link rel="alternate">.
var feedMIMETypes = map[string]bool{
	"application/rss+xml":   true,
	"application/atom+xml":  true,
	"application/feed+json": true,
}

// Detector finds candidate feed URLs inside HTML documents.
type Detector struct{}

// NewDetector constructs a Detector. The zero value is equally usable.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect parses r as HTML and returns every <link rel="alternate"> whose
// type is a recognized feed MIME type, with relative hrefs resolved against
// pageURL (the final URL of the response r came from, after redirects).
func (d *Detector) Detect(r io.Reader, pageURL string) ([]CandidateFeed, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	var out []CandidateFeed
	doc.Find(`link[rel="alternate"]`).Each(func(_ int, sel *goquery.Selection) {
		typ, ok := sel.Attr("type")
		if !ok || !feedMIMETypes[strings.ToLower(strings.TrimSpace(typ))] {
			return
		}
		href, ok := sel.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		resolved := resolveAgainst(base, href)
		out = append(out, CandidateFeed{URL: resolved, Type: typ})
	})

	return out, nil
}

func resolveAgainst(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
