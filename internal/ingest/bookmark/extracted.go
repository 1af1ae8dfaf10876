package bookmark

// ExtractedBookmark is the raw metadata pulled out of an HTML document,
// before postprocess.Bookmark resolves relative URLs and parses dates.
type ExtractedBookmark struct {
	Title     string
	Thumbnail string
	Published string
	Author    string
}
