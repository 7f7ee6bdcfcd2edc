package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"blog-api/internal/domains/blog/model"
	"blog-api/internal/shared/utils"
	"blog-api/pkg/cache"
	"blog-api/pkg/database"
)

const (
	usersEmailKey   = "users_email_key"
	uniqueViolation = "23505"
)

const userColumns = `u.id, u.email, u.password, u.roles, u.username, u.lastname,
	u.birthday, u.phone, u.address, u.license, u.status, u.is_verified`

// userRepository implements UserRepositoryInterface
// Uses pgx for PostgreSQL and cache.Cache for user:{id}
type userRepository struct {
	db    database.DBTX
	cache cache.Cache
	ttl   time.Duration
}

// NewUserRepository - db là pool hoặc tx
func NewUserRepository(db database.DBTX, c cache.Cache, ttl time.Duration) UserRepositoryInterface {
	return &userRepository{db: db, cache: c, ttl: ttl}
}

// WithTx: repository trong tx không đọc/ghi cache, caller gọi Invalidate sau commit
func (r *userRepository) WithTx(tx pgx.Tx) UserRepositoryInterface {
	return &userRepository{db: tx, cache: cache.Noop{}, ttl: r.ttl}
}

func (r *userRepository) Invalidate(ctx context.Context, ids ...int64) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, userCacheKey(id))
	}
	cacheDelete(ctx, r.cache, keys...)
}

// userDest trả về các pointer theo đúng thứ tự userColumns
func userDest(u *model.User, roles *[]string) []any {
	return []any{
		&u.ID, &u.Email, &u.Password, roles, &u.Username, &u.Lastname,
		&u.Birthday, &u.Phone, &u.Address, &u.License, &u.Status, &u.IsVerified,
	}
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := model.NewUser()
	var roles []string
	if err := row.Scan(userDest(u, &roles)...); err != nil {
		return nil, err
	}
	u.SetRoles(roles)
	return u, nil
}

func (r *userRepository) List(ctx context.Context, filter model.UserFilter) (model.Page[*model.User], error) {
	var (
		args    utils.Args
		clauses []string
	)
	if filter.ArticleScope != nil {
		clauses = append(clauses, fmt.Sprintf(
			"u.id IN (SELECT a.author_id FROM articles a WHERE a.id = %s)", args.Add(*filter.ArticleScope)))
	}
	where := utils.WhereClause(clauses)

	var page model.Page[*model.User]
	countQuery := "SELECT COUNT(*) FROM users u " + where
	if err := r.db.QueryRow(ctx, countQuery, args.Values()...).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM users u %s ORDER BY u.id ASC LIMIT %s OFFSET %s",
		userColumns, where, args.Add(filter.Limit), args.Add(filter.Offset()))

	rows, err := r.db.Query(ctx, query, args.Values()...)
	if err != nil {
		return page, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	page.Items = make([]*model.User, 0, filter.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return page, fmt.Errorf("scan user: %w", err)
		}
		page.Items = append(page.Items, u)
	}
	if err := rows.Err(); err != nil {
		return page, fmt.Errorf("iterate users: %w", err)
	}

	return page, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var rec userRecord
	if cacheGet(ctx, r.cache, userCacheKey(id), &rec) {
		return rec.toModel(), nil
	}

	query := "SELECT " + userColumns + " FROM users u WHERE u.id = $1"
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}

	cacheSet(ctx, r.cache, userCacheKey(id), toUserRecord(u), r.ttl)
	return u, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)"
	if err := r.db.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (email, password, roles, username, lastname, birthday,
			phone, address, license, status, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		u.Email, u.Password, u.StoredRoles(), u.Username, u.Lastname, u.Birthday,
		u.Phone, u.Address, u.License, u.Status, u.IsVerified,
	).Scan(&u.ID)
	if err != nil {
		return mapUserWriteError(err, "create user")
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users SET email = $2, password = $3, roles = $4, username = $5, lastname = $6,
			birthday = $7, phone = $8, address = $9, license = $10, status = $11, is_verified = $12
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		u.ID, u.Email, u.Password, u.StoredRoles(), u.Username, u.Lastname,
		u.Birthday, u.Phone, u.Address, u.License, u.Status, u.IsVerified,
	)
	if err != nil {
		return mapUserWriteError(err, "update user")
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	cacheDelete(ctx, r.cache, userCacheKey(u.ID))
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) ([]int64, error) {
	// articles trước: author_id NOT NULL
	rows, err := r.db.Query(ctx, "DELETE FROM articles WHERE author_id = $1 RETURNING id", id)
	if err != nil {
		return nil, fmt.Errorf("delete articles of user %d: %w", id, err)
	}
	articleIDs, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("delete articles of user %d: %w", id, err)
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("delete user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, model.ErrUserNotFound
	}

	keys := []string{userCacheKey(id)}
	for _, aid := range articleIDs {
		keys = append(keys, articleCacheKey(aid))
	}
	cacheDelete(ctx, r.cache, keys...)

	return articleIDs, nil
}

func mapUserWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == usersEmailKey {
		return model.ErrEmailTaken
	}
	return fmt.Errorf("%s: %w", op, err)
}
