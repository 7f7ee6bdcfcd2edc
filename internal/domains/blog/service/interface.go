package service

import (
	"context"

	"blog-api/internal/domains/blog/model"
)

// UserServiceInterface - business rules cho users
type UserServiceInterface interface {
	List(ctx context.Context, filter model.UserFilter) (model.Page[*model.User], error)

	// Get trả về user kèm collection articles
	Get(ctx context.Context, id int64) (*model.User, error)

	Create(ctx context.Context, payload *model.UserPayload) (*model.User, error)

	// Replace (PUT): field vắng mặt bị reset, trừ password và article
	Replace(ctx context.Context, id int64, payload *model.UserPayload) (*model.User, error)

	// Patch: merge, chỉ field có trong payload bị thay đổi
	Patch(ctx context.Context, id int64, payload *model.UserPayload) (*model.User, error)

	// Delete xóa user và articles của user
	Delete(ctx context.Context, id int64) error

	// ListByArticle - nested collection /articles/{id}/author
	ListByArticle(ctx context.Context, articleID int64, pagination model.Pagination) (model.Page[*model.User], error)
}

// ArticleServiceInterface - business rules cho articles
type ArticleServiceInterface interface {
	List(ctx context.Context, filter model.ArticleFilter) (model.Page[*model.Article], error)

	// Get trả về article kèm author
	Get(ctx context.Context, id int64) (*model.Article, error)

	Create(ctx context.Context, payload *model.ArticlePayload) (*model.Article, error)
	Replace(ctx context.Context, id int64, payload *model.ArticlePayload) (*model.Article, error)
	Patch(ctx context.Context, id int64, payload *model.ArticlePayload) (*model.Article, error)
	Delete(ctx context.Context, id int64) error

	// ListByAuthor - nested collection /users/{id}/articles
	ListByAuthor(ctx context.Context, userID int64, filter model.ArticleFilter) (model.Page[*model.Article], error)
}
