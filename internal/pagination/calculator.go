package pagination

// Paginate applies the limit+1 fetch-ahead sentinel scheme (§4.8): rows must
// have been fetched with FetchLimit() = limit+1. If the result has more than
// limit rows, the last one is dropped and cursorOf is applied to its
// predecessor (the new last item of the trimmed page) to produce the next
// cursor; otherwise no cursor is emitted.
func Paginate[T any](rows []T, limit int, cursorOf func(T) (string, error)) (Page[T], error) {
	if len(rows) <= limit {
		return NewPage(rows, nil), nil
	}

	page := rows[:limit]
	cursor, err := cursorOf(page[len(page)-1])
	if err != nil {
		return Page[T]{}, err
	}
	return NewPage(page, &cursor), nil
}
