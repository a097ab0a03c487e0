package response

import "book-review/pkg/utils"

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination links to the neighbouring pages. Both links are absent on a single page.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

func NewPagination(page, limit int, total int64) Pagination {
	var p Pagination
	if utils.HasNextPage(page, limit, total) {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if utils.HasPrevPage(page, limit) {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return p
}

// Page is one slice of a listing with its navigation.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
	Count      int        `json:"count"`
	Total      int64      `json:"total"`
}

func NewPage[T any](data []T, page, limit int, total int64) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		Pagination: NewPagination(page, limit, total),
		Count:      len(data),
		Total:      total,
	}
}
