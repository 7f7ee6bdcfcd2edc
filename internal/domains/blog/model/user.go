package model

import "time"

// RoleUser is granted to every user regardless of the stored role set
const RoleUser = "ROLE_USER"

// User là account/profile record - sở hữu 0..n articles
// Không có json tag cho output: serialization đi qua projection table (projection.go)
type User struct {
	// Identity
	ID    int64
	Email string

	// Authentication - password đã được hash từ bên ngoài, chỉ lưu lại
	Password string
	roles    []string

	// Profile
	Username string
	Lastname string
	Birthday *time.Time
	Phone    *string // max 10
	Address  *string
	License  *string // max 35

	// Flags
	Status     bool
	IsVerified bool

	// Inverse side của relation - owning side là Article.Author (author_id)
	Articles []*Article
}

// NewUser tạo user rỗng với collection articles đã khởi tạo
func NewUser() *User {
	return &User{Articles: make([]*Article, 0)}
}

// UserIdentifier is the visual identifier of the user
func (u *User) UserIdentifier() string {
	return u.Email
}

// Roles returns the stored roles plus ROLE_USER, without duplicates.
func (u *User) Roles() []string {
	seen := make(map[string]struct{}, len(u.roles)+1)
	out := make([]string, 0, len(u.roles)+1)
	for _, r := range append(append([]string{}, u.roles...), RoleUser) {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// StoredRoles returns the raw role set as persisted
func (u *User) StoredRoles() []string {
	return append([]string{}, u.roles...)
}

func (u *User) SetRoles(roles []string) *User {
	u.roles = append([]string{}, roles...)
	return u
}

// HasArticle reports whether a is part of the collection
func (u *User) HasArticle(a *Article) bool {
	return u.indexOf(a) >= 0
}

// AddArticle thêm article vào collection và đồng bộ owning side (author)
func (u *User) AddArticle(a *Article) *User {
	if a == nil || u.HasArticle(a) {
		return u
	}
	u.Articles = append(u.Articles, a)
	a.SetAuthor(u)
	return u
}

// RemoveArticle bỏ article khỏi collection.
// Author chỉ bị clear nếu article vẫn đang trỏ về user này.
func (u *User) RemoveArticle(a *Article) bool {
	i := u.indexOf(a)
	if i < 0 {
		return false
	}
	removed := u.Articles[i]
	u.Articles = append(u.Articles[:i], u.Articles[i+1:]...)

	if removed.Author != nil && removed.Author.same(u) {
		removed.SetAuthor(nil)
	}
	if a != removed && a.Author != nil && a.Author.same(u) {
		a.SetAuthor(nil)
	}
	return true
}

func (u *User) indexOf(a *Article) int {
	if a == nil {
		return -1
	}
	for i, existing := range u.Articles {
		if existing.same(a) {
			return i
		}
	}
	return -1
}

// same: cùng pointer, hoặc cùng ID đã persist
func (u *User) same(other *User) bool {
	if u == other {
		return true
	}
	return other != nil && u.ID != 0 && u.ID == other.ID
}
