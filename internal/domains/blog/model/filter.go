package model

import (
	"math"
	"time"
)

const DefaultItemsPerPage = 10

// Pagination - page bắt đầu từ 1
type Pagination struct {
	Page  int
	Limit int
}

func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultItemsPerPage
	}
	// (page-1)*limit không được tràn int
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// DateRange maps createdAt[before|strictly_before|after|strictly_after]
type DateRange struct {
	Before         *time.Time // <=
	StrictlyBefore *time.Time // <
	After          *time.Time // >=
	StrictlyAfter  *time.Time // >
}

func (d DateRange) IsZero() bool {
	return d.Before == nil && d.StrictlyBefore == nil && d.After == nil && d.StrictlyAfter == nil
}

// ArticleFilter - các điều kiện được AND với nhau
type ArticleFilter struct {
	Title          *string  // partial, case-sensitive
	AuthorIDs      []int64  // exact, OR giữa các id; nil = không lọc, rỗng = không khớp
	AuthorUsername *string  // partial
	AuthorLastname *string  // partial
	CreatedAt      DateRange
	IsPublished    *bool

	// AuthorScope giới hạn theo parent của nested collection /users/{id}/articles
	AuthorScope *int64

	Pagination
}

// UserFilter - ArticleScope dùng cho /articles/{id}/author
type UserFilter struct {
	ArticleScope *int64

	Pagination
}

// Page is one page of a collection plus the total number of matching items
type Page[T any] struct {
	Items []T
	Total int64
}
