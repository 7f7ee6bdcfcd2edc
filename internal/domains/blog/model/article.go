package model

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Constants for validation
const (
	MinTitleLength   = 5
	MaxTitleLength   = 120
	MinContentLength = 30
)

// Article represents a blog post.
// Author is the owning side of the user/article relation: the stored foreign key.
type Article struct {
	ID          int64
	Title       string
	Content     string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	Slug        *string
	IsPublished bool
	Author      *User
}

// NewArticle stamps CreatedAt; it is not touched again unless SetCreatedAt is called.
func NewArticle(now time.Time) *Article {
	return &Article{CreatedAt: now}
}

func (a *Article) SetCreatedAt(t time.Time) *Article {
	a.CreatedAt = t
	return a
}

// Touch marks the article as modified
func (a *Article) Touch(now time.Time) *Article {
	a.UpdatedAt = &now
	return a
}

func (a *Article) SetAuthor(u *User) *Article {
	a.Author = u
	return a
}

// AuthorID returns 0 when the article has no author
func (a *Article) AuthorID() int64 {
	if a.Author == nil {
		return 0
	}
	return a.Author.ID
}

// CreatedAtAgo is a human readable "3 hours ago" form of CreatedAt relative to now.
func (a *Article) CreatedAtAgo(now time.Time) string {
	return humanize.RelTime(a.CreatedAt, now, "ago", "from now")
}

func (a *Article) same(other *Article) bool {
	if a == other {
		return true
	}
	return other != nil && a.ID != 0 && a.ID == other.ID
}
