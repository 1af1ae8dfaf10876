package postprocess

import (
	"strings"
	"time"
)

// rfc2822NoComma is %a %d %b %Y %H:%M:%S %z, the lenient fallback variant
// some feeds emit without the weekday/day comma RFC 2822 requires.
const rfc2822NoComma = "Mon 02 Jan 2006 15:04:05 -0700"

// parseDate tries RFC3339, then RFC2822, then the comma-less RFC2822
// variant, per §4.4. ok is false if none matched, leaving the caller to
// decide the soft-failure value (nil for optional fields, time.Now() for
// required ones).
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{time.RFC3339, time.RFC1123Z, rfc2822NoComma} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
