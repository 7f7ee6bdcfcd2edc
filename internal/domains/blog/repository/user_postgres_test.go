package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-api/internal/domains/blog/model"
)

var userColumnNames = []string{
	"id", "email", "password", "roles", "username", "lastname",
	"birthday", "phone", "address", "license", "status", "is_verified",
}

func janeRow(rows *pgxmock.Rows, id int64) *pgxmock.Rows {
	birthday := time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)
	phone := "0612345678"
	return rows.AddRow(id, "jane@example.com", "hash", []string{"ROLE_ADMIN"}, "Jane", "Doe",
		&birthday, &phone, nil, nil, true, false)
}

func newUserRepo(t *testing.T) (pgxmock.PgxPoolIface, *memCache, UserRepositoryInterface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	c := newMemCache()
	return mock, c, NewUserRepository(mock, c, time.Minute)
}

func TestUserRepository_GetByID_CacheAside(t *testing.T) {
	mock, c, repo := newUserRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users u WHERE u.id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(janeRow(pgxmock.NewRows(userColumnNames), 1))

	u, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, []string{"ROLE_ADMIN", model.RoleUser}, u.Roles())
	require.NotNil(t, u.Phone)
	assert.Nil(t, u.Address)
	assert.True(t, c.has("user:1"))

	// lần 2 đọc từ cache, không query
	cached, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, u.Email, cached.Email)
	assert.Equal(t, u.Roles(), cached.Roles())
	assert.Equal(t, u.Birthday.Format("2006-01-02"), cached.Birthday.Format("2006-01-02"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_CacheErrorFallsBackToDB(t *testing.T) {
	mock, c, repo := newUserRepo(t)
	c.err = errCacheDown

	mock.ExpectQuery(regexp.QuoteMeta("FROM users u WHERE u.id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(janeRow(pgxmock.NewRows(userColumnNames), 1))

	u, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mock, _, repo := newUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users u WHERE u.id = $1")).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, model.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List_ArticleScope(t *testing.T) {
	mock, _, repo := newUserRepo(t)
	articleID := int64(10)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users u WHERE u.id IN (SELECT a.author_id FROM articles a WHERE a.id = $1)")).
		WithArgs(articleID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY u.id ASC LIMIT $2 OFFSET $3")).
		WithArgs(articleID, 10, 0).
		WillReturnRows(janeRow(pgxmock.NewRows(userColumnNames), 1))

	page, err := repo.List(context.Background(), model.UserFilter{
		ArticleScope: &articleID,
		Pagination:   model.NewPagination(1, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Jane", page.Items[0].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	mock, _, repo := newUserRepo(t)
	u := model.NewUser()
	u.Email = "jane@example.com"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(u.Email, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), u)
	assert.ErrorIs(t, err, model.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_SetsID(t *testing.T) {
	mock, _, repo := newUserRepo(t)
	u := model.NewUser()
	u.Email = "jane@example.com"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(u.Email, pgxmock.AnyArg(), []string{}, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int64(7), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update(t *testing.T) {
	t.Run("invalidates cache", func(t *testing.T) {
		mock, c, repo := newUserRepo(t)
		u := model.NewUser()
		u.ID = 1
		require.NoError(t, c.Set(context.Background(), "user:1", toUserRecord(u), time.Minute))

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET")).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.Update(context.Background(), u))
		assert.False(t, c.has("user:1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		mock, _, repo := newUserRepo(t)
		u := model.NewUser()
		u.ID = 99

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET")).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, repo.Update(context.Background(), u), model.ErrUserNotFound)
	})
}

func TestUserRepository_WithTx_LeavesCacheUntilInvalidate(t *testing.T) {
	mock, c, repo := newUserRepo(t)
	ctx := context.Background()
	u := model.NewUser()
	u.ID = 1
	require.NoError(t, c.Set(ctx, "user:1", toUserRecord(u), time.Minute))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.WithTx(tx).Update(ctx, u))
	assert.True(t, c.has("user:1"), "cache must survive until commit")

	repo.Invalidate(ctx, 1)
	assert.False(t, c.has("user:1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_CascadesArticles(t *testing.T) {
	mock, c, repo := newUserRepo(t)
	ctx := context.Background()
	for _, key := range []string{"user:1", "article:10", "article:11"} {
		require.NoError(t, c.Set(ctx, key, map[string]int{"id": 1}, time.Minute))
	}

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM articles WHERE author_id = $1 RETURNING id")).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(10)).AddRow(int64(11)))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	ids, err := repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, ids)
	for _, key := range []string{"user:1", "article:10", "article:11"} {
		assert.False(t, c.has(key), key)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	mock, _, repo := newUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)")).
		WithArgs("jane@example.com", int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "jane@example.com", 3)
	require.NoError(t, err)
	assert.True(t, exists)
}
