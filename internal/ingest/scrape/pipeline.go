// Package scrape composes the detect/download/extract/postprocess stages
// (C3, this package's downloader, C1/C2, C4) into the single scrape(url)
// entry point §4.5 describes, with a per-host plugin table and a
// transient/permanent error split the job queue (C9) branches on.
package scrape

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"colette/internal/core/coreerr"
	"colette/internal/ingest/bookmark"
	"colette/internal/ingest/detect"
	"colette/internal/ingest/feed"
	"colette/internal/ingest/postprocess"
	"colette/internal/resilience/circuitbreaker"
	"colette/internal/resilience/retry"
)

// Pipeline scrapes feeds and bookmarks from arbitrary URLs. Feed fetches and
// bookmark fetches run through separate downloaders since feed polling
// tolerates a more aggressive retry/circuit profile than scraping an
// arbitrary bookmarked page does.
type Pipeline struct {
	feedDownloader     *downloader
	bookmarkDownloader *downloader
	detector           *detect.Detector
	feedParser         *feed.Parser
	bookmarks          *bookmark.Extractor
}

// NewPipeline constructs a Pipeline using client for outbound HTTP.
func NewPipeline(client *http.Client) *Pipeline {
	return &Pipeline{
		feedDownloader:     newDownloader(client, circuitbreaker.FeedFetchConfig(), retry.FeedFetchConfig()),
		bookmarkDownloader: newDownloader(client, circuitbreaker.WebScraperConfig(), retry.WebScraperConfig()),
		detector:           detect.NewDetector(),
		feedParser:         feed.NewParser(),
		bookmarks:          bookmark.NewExtractor(),
	}
}

// ScrapeFeed downloads sourceURL and returns a ProcessedFeed. If the
// response is HTML rather than a feed document, it runs the detector and
// recurses once on the first candidate (cycle prevention: sourceURL itself
// is marked visited before the recursive call).
func (p *Pipeline) ScrapeFeed(ctx context.Context, sourceURL string) (*postprocess.ProcessedFeed, error) {
	return p.scrapeFeed(ctx, sourceURL, map[string]bool{})
}

func (p *Pipeline) scrapeFeed(ctx context.Context, sourceURL string, visited map[string]bool) (*postprocess.ProcessedFeed, error) {
	if visited[sourceURL] {
		return nil, coreerr.ScrapePermanentError{URL: sourceURL, Err: coreerr.ErrUnsupportedFeed}
	}
	visited[sourceURL] = true

	rewritten := applyHostPlugin(sourceURL)

	resp, err := p.feedDownloader.get(ctx, rewritten)
	if err != nil {
		return nil, err
	}

	if looksLikeXML(resp.body) {
		extracted, err := p.feedParser.Parse(bytes.NewReader(resp.body))
		if err != nil {
			return nil, coreerr.ScrapePermanentError{URL: sourceURL, Err: err}
		}
		processed, err := postprocess.Feed(extracted)
		if err != nil {
			return nil, coreerr.ScrapePermanentError{URL: sourceURL, Err: err}
		}
		return processed, nil
	}

	candidates, err := p.detector.Detect(bytes.NewReader(resp.body), resp.finalURL)
	if err != nil {
		return nil, coreerr.ScrapePermanentError{URL: sourceURL, Err: err}
	}
	if len(candidates) == 0 {
		return nil, coreerr.ScrapePermanentError{URL: sourceURL, Err: coreerr.ErrUnsupportedFeed}
	}
	if len(visited) > 1 {
		return nil, coreerr.ScrapePermanentError{URL: sourceURL, Err: coreerr.ErrUnsupportedFeed}
	}

	return p.scrapeFeed(ctx, candidates[0].URL, visited)
}

// ScrapeBookmark downloads url and extracts bookmark metadata from the HTML
// response.
func (p *Pipeline) ScrapeBookmark(ctx context.Context, url string) (*postprocess.ProcessedBookmark, error) {
	resp, err := p.bookmarkDownloader.get(ctx, url)
	if err != nil {
		return nil, err
	}

	extracted, err := p.bookmarks.Extract(bytes.NewReader(resp.body))
	if err != nil {
		return nil, coreerr.ScrapePermanentError{URL: url, Err: err}
	}

	processed, err := postprocess.Bookmark(extracted, resp.finalURL)
	if err != nil {
		return nil, coreerr.ScrapePermanentError{URL: url, Err: err}
	}
	return processed, nil
}

// looksLikeXML sniffs a response body the way §4.5 directs: if it begins
// with XML (after whitespace/BOM), treat it as a feed document; otherwise
// it's HTML to run the detector over.
func looksLikeXML(body []byte) bool {
	trimmed := bytes.TrimLeft(body, "\xef\xbb\xbf \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("<?xml")) ||
		strings.HasPrefix(strings.ToLower(string(firstTag(trimmed))), "<rss") ||
		strings.HasPrefix(strings.ToLower(string(firstTag(trimmed))), "<feed")
}

func firstTag(body []byte) []byte {
	if len(body) == 0 || body[0] != '<' {
		return nil
	}
	end := bytes.IndexByte(body, '>')
	if end == -1 {
		end = len(body)
	}
	return body[:end]
}
