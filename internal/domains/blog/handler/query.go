package handler

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"blog-api/internal/domains/blog/model"
)

// Query parameters
const (
	paramPage           = "page"
	paramTitle          = "title"
	paramAuthor         = "author"
	paramAuthorUsername = "author.username"
	paramAuthorLastname = "author.lastname"
	paramCreatedAt      = "createdAt"
	paramIsPublished    = "isPublished"
)

// parsePagination: page không hợp lệ -> 1
func parsePagination(q url.Values, itemsPerPage int) model.Pagination {
	page, err := strconv.Atoi(q.Get(paramPage))
	if err != nil {
		page = 1
	}
	return model.NewPagination(page, itemsPerPage)
}

// parseArticleFilter - giá trị không hợp lệ bị bỏ qua, không trả lỗi
func parseArticleFilter(q url.Values, itemsPerPage int) model.ArticleFilter {
	f := model.ArticleFilter{Pagination: parsePagination(q, itemsPerPage)}

	f.Title = nonEmpty(q.Get(paramTitle))
	f.AuthorUsername = nonEmpty(q.Get(paramAuthorUsername))
	f.AuthorLastname = nonEmpty(q.Get(paramAuthorLastname))

	// author=1, author[]=1&author[]=/api/v1/users/2
	// có tham số nhưng không giá trị nào hợp lệ -> AuthorIDs rỗng, không khớp article nào
	for _, key := range []string{paramAuthor, paramAuthor + "[]"} {
		for _, v := range q[key] {
			if f.AuthorIDs == nil {
				f.AuthorIDs = []int64{}
			}
			if id, err := model.ParseIRI(v, model.ResourceUser); err == nil {
				f.AuthorIDs = append(f.AuthorIDs, id)
			}
		}
	}

	f.CreatedAt = model.DateRange{
		Before:         parseDateParam(q, "before"),
		StrictlyBefore: parseDateParam(q, "strictly_before"),
		After:          parseDateParam(q, "after"),
		StrictlyAfter:  parseDateParam(q, "strictly_after"),
	}

	switch strings.ToLower(q.Get(paramIsPublished)) {
	case "true", "1":
		f.IsPublished = boolPtr(true)
	case "false", "0":
		f.IsPublished = boolPtr(false)
	}

	return f
}

func parseDateParam(q url.Values, op string) *time.Time {
	v := q.Get(paramCreatedAt + "[" + op + "]")
	if v == "" {
		return nil
	}
	t, err := model.ParseDate(v)
	if err != nil {
		return nil
	}
	return &t
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}
