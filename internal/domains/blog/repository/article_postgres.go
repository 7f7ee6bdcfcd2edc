package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"blog-api/internal/domains/blog/model"
	"blog-api/internal/shared/utils"
	"blog-api/pkg/cache"
	"blog-api/pkg/database"
)

const articleColumns = `a.id, a.title, a.content, a.created_at, a.updated_at, a.slug, a.is_published`

// articleRepository implements ArticleRepositoryInterface
type articleRepository struct {
	db    database.DBTX
	cache cache.Cache
	ttl   time.Duration
}

func NewArticleRepository(db database.DBTX, c cache.Cache, ttl time.Duration) ArticleRepositoryInterface {
	return &articleRepository{db: db, cache: c, ttl: ttl}
}

// WithTx: repository trong tx không đọc/ghi cache, caller gọi Invalidate sau commit
func (r *articleRepository) WithTx(tx pgx.Tx) ArticleRepositoryInterface {
	return &articleRepository{db: tx, cache: cache.Noop{}, ttl: r.ttl}
}

func articleDest(a *model.Article) []any {
	return []any{&a.ID, &a.Title, &a.Content, &a.CreatedAt, &a.UpdatedAt, &a.Slug, &a.IsPublished}
}

// scanArticle đọc articleColumns + author_id, author chỉ có ID
func scanArticle(row pgx.Row) (*model.Article, error) {
	a := &model.Article{}
	var authorID int64
	if err := row.Scan(append(articleDest(a), &authorID)...); err != nil {
		return nil, err
	}
	a.Author = &model.User{ID: authorID}
	return a, nil
}

// scanArticleWithAuthor đọc articleColumns + userColumns
func scanArticleWithAuthor(row pgx.Row) (*model.Article, error) {
	a := &model.Article{}
	author := model.NewUser()
	var roles []string
	if err := row.Scan(append(articleDest(a), userDest(author, &roles)...)...); err != nil {
		return nil, err
	}
	author.SetRoles(roles)
	a.Author = author
	return a, nil
}

// buildArticleWhere - mọi điều kiện được AND, AuthorIDs là OR bên trong (ANY)
func buildArticleWhere(f model.ArticleFilter, args *utils.Args) string {
	var clauses []string

	if f.Title != nil {
		clauses = append(clauses, "a.title LIKE "+args.Add(utils.ContainsPattern(*f.Title)))
	}
	// = ANY('{}') luôn false
	if f.AuthorIDs != nil {
		clauses = append(clauses, "a.author_id = ANY("+args.Add(f.AuthorIDs)+")")
	}
	if f.AuthorUsername != nil {
		clauses = append(clauses, "u.username LIKE "+args.Add(utils.ContainsPattern(*f.AuthorUsername)))
	}
	if f.AuthorLastname != nil {
		clauses = append(clauses, "u.lastname LIKE "+args.Add(utils.ContainsPattern(*f.AuthorLastname)))
	}
	if d := f.CreatedAt; !d.IsZero() {
		if d.Before != nil {
			clauses = append(clauses, "a.created_at <= "+args.Add(*d.Before))
		}
		if d.StrictlyBefore != nil {
			clauses = append(clauses, "a.created_at < "+args.Add(*d.StrictlyBefore))
		}
		if d.After != nil {
			clauses = append(clauses, "a.created_at >= "+args.Add(*d.After))
		}
		if d.StrictlyAfter != nil {
			clauses = append(clauses, "a.created_at > "+args.Add(*d.StrictlyAfter))
		}
	}
	if f.IsPublished != nil {
		clauses = append(clauses, "a.is_published = "+args.Add(*f.IsPublished))
	}
	if f.AuthorScope != nil {
		clauses = append(clauses, "a.author_id = "+args.Add(*f.AuthorScope))
	}

	return utils.WhereClause(clauses)
}

func (r *articleRepository) List(ctx context.Context, filter model.ArticleFilter) (model.Page[*model.Article], error) {
	var args utils.Args
	where := buildArticleWhere(filter, &args)
	from := "FROM articles a JOIN users u ON u.id = a.author_id " + where

	var page model.Page[*model.Article]
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) "+from, args.Values()...).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("count articles: %w", err)
	}

	query := fmt.Sprintf("SELECT %s, %s %s ORDER BY a.id ASC LIMIT %s OFFSET %s",
		articleColumns, userColumns, from, args.Add(filter.Limit), args.Add(filter.Offset()))

	rows, err := r.db.Query(ctx, query, args.Values()...)
	if err != nil {
		return page, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	page.Items = make([]*model.Article, 0, filter.Limit)
	for rows.Next() {
		a, err := scanArticleWithAuthor(rows)
		if err != nil {
			return page, fmt.Errorf("scan article: %w", err)
		}
		page.Items = append(page.Items, a)
	}
	if err := rows.Err(); err != nil {
		return page, fmt.Errorf("iterate articles: %w", err)
	}

	return page, nil
}

func (r *articleRepository) GetByID(ctx context.Context, id int64) (*model.Article, error) {
	var rec articleRecord
	if cacheGet(ctx, r.cache, articleCacheKey(id), &rec) {
		return rec.toModel(), nil
	}

	query := "SELECT " + articleColumns + ", a.author_id FROM articles a WHERE a.id = $1"
	a, err := scanArticle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrArticleNotFound
		}
		return nil, fmt.Errorf("get article %d: %w", id, err)
	}

	cacheSet(ctx, r.cache, articleCacheKey(id), toArticleRecord(a), r.ttl)
	return a, nil
}

func (r *articleRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := "SELECT " + articleColumns + ", a.author_id FROM articles a WHERE a.id = ANY($1)"
	return r.queryArticles(ctx, query, ids)
}

func (r *articleRepository) ListByAuthor(ctx context.Context, authorID int64) ([]*model.Article, error) {
	query := "SELECT " + articleColumns + ", a.author_id FROM articles a WHERE a.author_id = $1 ORDER BY a.id ASC"
	return r.queryArticles(ctx, query, authorID)
}

func (r *articleRepository) queryArticles(ctx context.Context, query string, args ...any) ([]*model.Article, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var out []*model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return out, nil
}

func (r *articleRepository) Create(ctx context.Context, a *model.Article) error {
	query := `
		INSERT INTO articles (title, content, created_at, updated_at, slug, is_published, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		a.Title, a.Content, a.CreatedAt, a.UpdatedAt, a.Slug, a.IsPublished, a.AuthorID(),
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

func (r *articleRepository) Update(ctx context.Context, a *model.Article) error {
	query := `
		UPDATE articles SET title = $2, content = $3, created_at = $4, updated_at = $5,
			slug = $6, is_published = $7, author_id = $8
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		a.ID, a.Title, a.Content, a.CreatedAt, a.UpdatedAt, a.Slug, a.IsPublished, a.AuthorID(),
	)
	if err != nil {
		return fmt.Errorf("update article %d: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrArticleNotFound
	}

	cacheDelete(ctx, r.cache, articleCacheKey(a.ID))
	return nil
}

func (r *articleRepository) Reassign(ctx context.Context, authorID int64, articleIDs []int64) error {
	if len(articleIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, "UPDATE articles SET author_id = $1 WHERE id = ANY($2)", authorID, articleIDs)
	if err != nil {
		return fmt.Errorf("reassign articles to user %d: %w", authorID, err)
	}

	r.Invalidate(ctx, articleIDs...)
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete article %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrArticleNotFound
	}

	cacheDelete(ctx, r.cache, articleCacheKey(id))
	return nil
}

func (r *articleRepository) DeleteMany(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.db.Exec(ctx, "DELETE FROM articles WHERE id = ANY($1)", ids); err != nil {
		return fmt.Errorf("delete articles: %w", err)
	}

	r.Invalidate(ctx, ids...)
	return nil
}

func (r *articleRepository) Invalidate(ctx context.Context, ids ...int64) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, articleCacheKey(id))
	}
	cacheDelete(ctx, r.cache, keys...)
}
