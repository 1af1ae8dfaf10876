package postgres

import (
	"fmt"
	"strconv"
)

// parseID converts a model.*.ID string (opaque to callers, a decimal SERIAL
// value at this layer) into the int64 the schema's primary keys use.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return n, nil
}

func formatID(n int64) string { return strconv.FormatInt(n, 10) }
