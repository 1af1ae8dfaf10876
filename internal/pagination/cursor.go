package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidCursor is returned by DecodeCursor when the input is not a
// well-formed cursor for the requested type.
var ErrInvalidCursor = errors.New("pagination: invalid cursor")

// EncodeCursor serializes a per-entity cursor record (e.g. a struct with
// PublishedAt/ID fields for entries, or Title/ID for subscriptions) to JSON
// and then to unpadded base64url, the opaque wire form clients carry.
func EncodeCursor(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("pagination: encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeCursor reverses EncodeCursor, unmarshaling into dst (a pointer).
// Malformed base64 or JSON is rejected as ErrInvalidCursor rather than the
// underlying error, so callers can distinguish "bad cursor" from other
// failures without inspecting error text.
func DecodeCursor(cursor string, dst any) error {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return nil
}

// EntryCursor positions a FeedEntry/Bookmark-style list ordered by
// (published_at, id).
type EntryCursor struct {
	PublishedAt int64  `json:"published_at"`
	ID          string `json:"id"`
}

// TitleCursor positions a Subscription-style list ordered by (title, id).
type TitleCursor struct {
	Title string `json:"title"`
	ID    string `json:"id"`
}
