package catalog

const (
	DefaultPageSize = 8
	MaxPageSize     = 100
)

// Page returns the 1-based page of items. Pages outside the list are empty;
// there is no wraparound and no fallback to the last page.
func Page[T any](items []T, page, size int) []T {
	if size <= 0 || page < 1 {
		return []T{}
	}
	if page-1 >= PageCount(len(items), size) {
		return []T{}
	}

	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end:end]
}

func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
