package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"blog-api/internal/domains/blog/model"
)

// UserRepositoryInterface defines data access for users
type UserRepositoryInterface interface {
	// List trả về một page users, sắp xếp theo id ASC
	List(ctx context.Context, filter model.UserFilter) (model.Page[*model.User], error)

	// GetByID - cache-aside trên key user:{id}
	// Errors: ErrUserNotFound
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// ExistsByEmail bỏ qua user có id = excludeID (0 khi create)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)

	// Create sets u.ID. Errors: ErrEmailTaken
	Create(ctx context.Context, u *model.User) error

	// Update ghi đè toàn bộ cột của u. Errors: ErrUserNotFound, ErrEmailTaken
	Update(ctx context.Context, u *model.User) error

	// Delete xóa user và toàn bộ articles của user, trả về id các article đã xóa
	Delete(ctx context.Context, id int64) ([]int64, error)

	// Invalidate xóa user:{id} khỏi cache, gọi sau khi tx commit
	Invalidate(ctx context.Context, ids ...int64)

	// WithTx trả về repository chạy trong tx, không đụng cache
	WithTx(tx pgx.Tx) UserRepositoryInterface
}

// ArticleRepositoryInterface defines data access for articles
type ArticleRepositoryInterface interface {
	// List trả về page articles kèm author đầy đủ (JOIN users)
	List(ctx context.Context, filter model.ArticleFilter) (model.Page[*model.Article], error)

	// GetByID - cache-aside trên key article:{id}.
	// Author chỉ có ID, service chịu trách nhiệm load author.
	// Errors: ErrArticleNotFound
	GetByID(ctx context.Context, id int64) (*model.Article, error)

	// GetByIDs trả về các article tìm thấy, không theo thứ tự
	GetByIDs(ctx context.Context, ids []int64) ([]*model.Article, error)

	// ListByAuthor trả về tất cả article của author (không phân trang), Author chưa được gán
	ListByAuthor(ctx context.Context, authorID int64) ([]*model.Article, error)

	// Create sets a.ID. a.Author phải đã có ID
	Create(ctx context.Context, a *model.Article) error

	// Update ghi đè toàn bộ cột. Errors: ErrArticleNotFound
	Update(ctx context.Context, a *model.Article) error

	// Reassign chuyển các article sang author mới (owning side: author_id)
	Reassign(ctx context.Context, authorID int64, articleIDs []int64) error

	// Delete errors: ErrArticleNotFound
	Delete(ctx context.Context, id int64) error

	// DeleteMany xóa các article mồ côi, không lỗi nếu id không tồn tại
	DeleteMany(ctx context.Context, ids []int64) error

	// Invalidate xóa article:{id} khỏi cache, gọi sau khi tx commit
	Invalidate(ctx context.Context, ids ...int64)

	WithTx(tx pgx.Tx) ArticleRepositoryInterface
}
