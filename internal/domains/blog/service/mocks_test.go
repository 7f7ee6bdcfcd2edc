package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"blog-api/internal/domains/blog/model"
	"blog-api/internal/domains/blog/repository"
)

// ====================================
// MOCK REPOSITORIES
// ====================================

type mockUserRepo struct {
	mock.Mock
}

var _ repository.UserRepositoryInterface = (*mockUserRepo)(nil)

func (m *mockUserRepo) List(ctx context.Context, filter model.UserFilter) (model.Page[*model.User], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(model.Page[*model.User]), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) Update(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) ([]int64, error) {
	args := m.Called(ctx, id)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func (m *mockUserRepo) Invalidate(ctx context.Context, ids ...int64) {
	m.Called(ctx, ids)
}

// WithTx trả về chính mock: transaction được kiểm tra qua pgxmock
func (m *mockUserRepo) WithTx(pgx.Tx) repository.UserRepositoryInterface {
	return m
}

type mockArticleRepo struct {
	mock.Mock
}

var _ repository.ArticleRepositoryInterface = (*mockArticleRepo)(nil)

func (m *mockArticleRepo) List(ctx context.Context, filter model.ArticleFilter) (model.Page[*model.Article], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(model.Page[*model.Article]), args.Error(1)
}

func (m *mockArticleRepo) GetByID(ctx context.Context, id int64) (*model.Article, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*model.Article), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockArticleRepo) GetByIDs(ctx context.Context, ids []int64) ([]*model.Article, error) {
	args := m.Called(ctx, ids)
	out, _ := args.Get(0).([]*model.Article)
	return out, args.Error(1)
}

func (m *mockArticleRepo) ListByAuthor(ctx context.Context, authorID int64) ([]*model.Article, error) {
	args := m.Called(ctx, authorID)
	out, _ := args.Get(0).([]*model.Article)
	return out, args.Error(1)
}

func (m *mockArticleRepo) Create(ctx context.Context, a *model.Article) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockArticleRepo) Update(ctx context.Context, a *model.Article) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockArticleRepo) Reassign(ctx context.Context, authorID int64, articleIDs []int64) error {
	return m.Called(ctx, authorID, articleIDs).Error(0)
}

func (m *mockArticleRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockArticleRepo) DeleteMany(ctx context.Context, ids []int64) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *mockArticleRepo) Invalidate(ctx context.Context, ids ...int64) {
	m.Called(ctx, ids)
}

func (m *mockArticleRepo) WithTx(pgx.Tx) repository.ArticleRepositoryInterface {
	return m
}
