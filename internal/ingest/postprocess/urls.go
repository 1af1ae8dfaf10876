package postprocess

import (
	"net/url"
	"strings"
)

// normalizeURL parses raw, promoting a protocol-relative "//host/path" form
// to "https:" first since url.Parse otherwise treats the leading "//" as a
// path-relative reference instead of an absolute one.
func normalizeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return u.String(), true
}
