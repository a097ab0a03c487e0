package request

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxPage      = 1000000
)

// PaginationQuery carries the raw page/limit query parameters.
type PaginationQuery struct {
	RawPage  string `json:"page" validate:"omitempty,intrange=1-1000000" message:"Page must be between 1 and 1000000"`
	RawLimit string `json:"limit" validate:"omitempty,intrange=1-50" message:"Limit must be between 1 and 50"`
}

func PaginationFromQuery(q url.Values) PaginationQuery {
	return PaginationQuery{
		RawPage:  strings.TrimSpace(q.Get("page")),
		RawLimit: strings.TrimSpace(q.Get("limit")),
	}
}

// Page returns the validated page or the default.
func (p PaginationQuery) Page() int {
	if n, err := strconv.Atoi(p.RawPage); err == nil && n >= 1 && n <= MaxPage {
		return n
	}
	return DefaultPage
}

// Limit returns the validated limit or the default.
func (p PaginationQuery) Limit() int {
	if n, err := strconv.Atoi(p.RawLimit); err == nil && n >= 1 {
		return n
	}
	return DefaultLimit
}

type BookListQuery struct {
	PaginationQuery
	Author string `json:"author" validate:"max=100"`
	Genre  string `json:"genre" validate:"max=50"`
}

func BookListFromQuery(q url.Values) BookListQuery {
	return BookListQuery{
		PaginationQuery: PaginationFromQuery(q),
		Author:          strings.TrimSpace(q.Get("author")),
		Genre:           strings.TrimSpace(q.Get("genre")),
	}
}

type SearchQuery struct {
	Q string `json:"q" validate:"min=1,max=100" message:"Search query must be between 1 and 100 characters"`
	PaginationQuery
}

func SearchFromQuery(q url.Values) SearchQuery {
	return SearchQuery{
		Q:               strings.TrimSpace(q.Get("q")),
		PaginationQuery: PaginationFromQuery(q),
	}
}
