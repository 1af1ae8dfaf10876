package scrape

import (
	"net/url"
	"strings"
)

// hostPlugin rewrites a source URL before it is downloaded. Absence from
// the map falls back to the URL unmodified.
type hostPlugin func(u *url.URL) string

// hostPlugins is the per-host override table from §4.5. Atom media
// extensions on YouTube's own feed output are already covered by C1's
// default field mapping; this plugin only handles the user/* -> channel/*
// URL rewrite YouTube's page requires to resolve to a feed at all.
var hostPlugins = map[string]hostPlugin{
	"www.youtube.com": rewriteYouTubeUser,
	"www.reddit.com":  appendRedditRSSSuffix,
}

func applyHostPlugin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	plugin, ok := hostPlugins[u.Host]
	if !ok {
		return rawURL
	}
	return plugin(u)
}

func rewriteYouTubeUser(u *url.URL) string {
	const prefix = "/user/"
	if strings.HasPrefix(u.Path, prefix) {
		u.Path = "/channel/" + strings.TrimPrefix(u.Path, prefix)
	}
	return u.String()
}

func appendRedditRSSSuffix(u *url.URL) string {
	if !strings.HasSuffix(u.Path, ".rss") {
		u.Path = strings.TrimSuffix(u.Path, "/") + ".rss"
	}
	return u.String()
}
