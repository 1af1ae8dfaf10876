package pagination

import "fmt"

// Params are the caller-supplied pagination inputs for one list call.
type Params struct {
	Cursor *string
	Limit  int
}

// WithDefaults applies config defaults and caps Limit, mirroring the
// teacher's fail-open Params.WithDefaults but without the page field the
// offset scheme needed.
func (p Params) WithDefaults(cfg Config) Params {
	if p.Limit <= 0 {
		p.Limit = cfg.DefaultLimit
	}
	if p.Limit > cfg.MaxLimit {
		p.Limit = cfg.MaxLimit
	}
	return p
}

// Validate checks Limit is within the configured bounds. Cursor validity is
// checked by DecodeCursor at the point of use, since its shape is
// entity-specific.
func (p Params) Validate(cfg Config) error {
	if p.Limit < 1 || p.Limit > cfg.MaxLimit {
		return fmt.Errorf("pagination: limit must be between 1 and %d", cfg.MaxLimit)
	}
	return nil
}

// FetchLimit is the limit+1 sentinel value repositories must pass to the
// underlying query so Paginate can detect a following page.
func (p Params) FetchLimit() int {
	return p.Limit + 1
}
