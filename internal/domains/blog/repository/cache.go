package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"blog-api/internal/domains/blog/model"
	"blog-api/pkg/cache"
)

// Cache key prefixes
const (
	userCacheKeyPrefix    = "user:"
	articleCacheKeyPrefix = "article:"
)

func userCacheKey(id int64) string {
	return userCacheKeyPrefix + strconv.FormatInt(id, 10)
}

func articleCacheKey(id int64) string {
	return articleCacheKeyPrefix + strconv.FormatInt(id, 10)
}

// userRecord là dạng JSON của user trong cache (model.User không có json tag)
type userRecord struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	Roles      []string   `json:"roles"`
	Username   string     `json:"username"`
	Lastname   string     `json:"lastname"`
	Birthday   *time.Time `json:"birthday"`
	Phone      *string    `json:"phone"`
	Address    *string    `json:"address"`
	License    *string    `json:"license"`
	Status     bool       `json:"status"`
	IsVerified bool       `json:"isVerified"`
}

func toUserRecord(u *model.User) userRecord {
	return userRecord{
		ID:         u.ID,
		Email:      u.Email,
		Password:   u.Password,
		Roles:      u.StoredRoles(),
		Username:   u.Username,
		Lastname:   u.Lastname,
		Birthday:   u.Birthday,
		Phone:      u.Phone,
		Address:    u.Address,
		License:    u.License,
		Status:     u.Status,
		IsVerified: u.IsVerified,
	}
}

func (r userRecord) toModel() *model.User {
	u := model.NewUser()
	u.ID = r.ID
	u.Email = r.Email
	u.Password = r.Password
	u.SetRoles(r.Roles)
	u.Username = r.Username
	u.Lastname = r.Lastname
	u.Birthday = r.Birthday
	u.Phone = r.Phone
	u.Address = r.Address
	u.License = r.License
	u.Status = r.Status
	u.IsVerified = r.IsVerified
	return u
}

// articleRecord chỉ giữ author_id: user có cache riêng
type articleRecord struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
	Slug        *string    `json:"slug"`
	IsPublished bool       `json:"isPublished"`
	AuthorID    int64      `json:"authorId"`
}

func toArticleRecord(a *model.Article) articleRecord {
	return articleRecord{
		ID:          a.ID,
		Title:       a.Title,
		Content:     a.Content,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		Slug:        a.Slug,
		IsPublished: a.IsPublished,
		AuthorID:    a.AuthorID(),
	}
}

func (r articleRecord) toModel() *model.Article {
	a := &model.Article{
		ID:          r.ID,
		Title:       r.Title,
		Content:     r.Content,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Slug:        r.Slug,
		IsPublished: r.IsPublished,
	}
	if r.AuthorID != 0 {
		a.Author = &model.User{ID: r.AuthorID}
	}
	return a
}

// cacheGet/cacheSet/cacheDelete: lỗi cache chỉ log, không làm fail request
func cacheGet(ctx context.Context, c cache.Cache, key string, dest any) bool {
	found, err := c.Get(ctx, key, dest)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[CACHE] get failed")
		return false
	}
	return found
}

func cacheSet(ctx context.Context, c cache.Cache, key string, value any, ttl time.Duration) {
	if err := c.Set(ctx, key, value, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[CACHE] set failed")
	}
}

func cacheDelete(ctx context.Context, c cache.Cache, keys ...string) {
	if err := c.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("[CACHE] delete failed")
	}
}
