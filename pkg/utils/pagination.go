package utils

import "math"

// CalculateOffset returns the startIndex for a 1-based page. The result saturates at
// math.MaxInt instead of overflowing.
func CalculateOffset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// HasNextPage reports whether more records remain past the current page.
func HasNextPage(page, limit int, total int64) bool {
	if limit < 1 {
		return false
	}
	return int64(CalculateOffset(page, limit)) < total-int64(limit)
}

// HasPrevPage reports whether the current page is past the first one.
func HasPrevPage(page, limit int) bool {
	return CalculateOffset(page, limit) > 0
}
