// Package bookmark parses an HTML document's <meta>/<link> tags into an
// ExtractedBookmark, trying a priority list of CSS selectors per field and
// keeping the first non-empty hit.
//
// Grounded on the teacher's internal/infra/scraper/webflow.go, which walks a
// goquery.Document with a selector-to-field mapping; this package replaces
// Webflow's fixed item/title/url/date selector set with the fixed
// og:/twitter:/article: meta priority chain from §4.2.
package bookmark

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// rule pairs a CSS selector with a projection out of the matched node: its
// text content, or one of its attributes.
type rule struct {
	selector string
	attr     string // empty means text content
}

var (
	titleRules = []rule{
		{selector: `meta[property="og:title"]`, attr: "content"},
		{selector: `meta[name="twitter:title"]`, attr: "content"},
		{selector: "title"},
	}
	thumbnailRules = []rule{
		{selector: `meta[property="og:image"]`, attr: "content"},
		{selector: `meta[name="twitter:image"]`, attr: "content"},
	}
	publishedRules = []rule{
		{selector: `meta[property="article:published_time"]`, attr: "content"},
	}
	authorRules = []rule{
		{selector: `meta[property="article:author"]`, attr: "content"},
		{selector: `meta[name="author"]`, attr: "content"},
	}
)

// Extractor parses HTML bodies into ExtractedBookmark records.
type Extractor struct{}

// NewExtractor constructs an Extractor. The zero value is equally usable;
// this exists for symmetry with Parser and Detector.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads r as HTML and applies the default selector chain. The final
// URL is not consulted here; postprocess.Bookmark absolutizes relative
// thumbnail/link URLs using it.
func (e *Extractor) Extract(r io.Reader) (*ExtractedBookmark, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	return &ExtractedBookmark{
		Title:     firstMatch(doc, titleRules),
		Thumbnail: firstMatch(doc, thumbnailRules),
		Published: firstMatch(doc, publishedRules),
		Author:    firstMatch(doc, authorRules),
	}, nil
}

func firstMatch(doc *goquery.Document, rules []rule) string {
	for _, r := range rules {
		sel := doc.Find(r.selector).First()
		if sel.Length() == 0 {
			continue
		}

		var value string
		if r.attr == "" {
			value = sel.Text()
		} else {
			v, exists := sel.Attr(r.attr)
			if !exists {
				continue
			}
			value = v
		}

		value = strings.TrimSpace(value)
		if value != "" {
			return value
		}
	}
	return ""
}
