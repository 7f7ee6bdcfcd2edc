package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"blog-api/internal/domains/blog/model"
	"blog-api/internal/domains/blog/repository"
	"blog-api/internal/shared/utils"
	"blog-api/pkg/database"
)

// articleService implements ArticleServiceInterface
type articleService struct {
	db       database.TxBeginner
	articles repository.ArticleRepositoryInterface
	users    repository.UserRepositoryInterface
	now      func() time.Time
}

func NewArticleService(
	db database.TxBeginner,
	articles repository.ArticleRepositoryInterface,
	users repository.UserRepositoryInterface,
) ArticleServiceInterface {
	return &articleService{db: db, articles: articles, users: users, now: time.Now}
}

func (s *articleService) List(ctx context.Context, filter model.ArticleFilter) (model.Page[*model.Article], error) {
	return s.articles.List(ctx, filter)
}

func (s *articleService) ListByAuthor(ctx context.Context, userID int64, filter model.ArticleFilter) (model.Page[*model.Article], error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return model.Page[*model.Article]{}, err
	}
	filter.AuthorScope = &userID
	return s.articles.List(ctx, filter)
}

func (s *articleService) Get(ctx context.Context, id int64) (*model.Article, error) {
	a, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// repository chỉ trả author id
	author, err := s.users.GetByID(ctx, a.AuthorID())
	if err != nil {
		return nil, fmt.Errorf("load author of article %d: %w", id, err)
	}
	a.SetAuthor(author)
	return a, nil
}

func (s *articleService) Create(ctx context.Context, payload *model.ArticlePayload) (*model.Article, error) {
	a := model.NewArticle(s.now())
	payload.ApplyTo(a, true)
	if err := s.save(ctx, a, payload, true); err != nil {
		return nil, err
	}

	log.Info().Int64("article_id", a.ID).Int64("author_id", a.AuthorID()).Msg("Article created")
	return a, nil
}

func (s *articleService) Replace(ctx context.Context, id int64, payload *model.ArticlePayload) (*model.Article, error) {
	return s.update(ctx, id, payload, true)
}

func (s *articleService) Patch(ctx context.Context, id int64, payload *model.ArticlePayload) (*model.Article, error) {
	return s.update(ctx, id, payload, false)
}

func (s *articleService) update(ctx context.Context, id int64, payload *model.ArticlePayload, replace bool) (*model.Article, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	payload.ApplyTo(a, replace)
	a.Touch(s.now())
	if err := s.save(ctx, a, payload, replace); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *articleService) Delete(ctx context.Context, id int64) error {
	if err := s.articles.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Int64("article_id", id).Msg("Article deleted")
	return nil
}

// ====================================
// WRITE PIPELINE
// ====================================

func (s *articleService) save(ctx context.Context, a *model.Article, payload *model.ArticlePayload, replace bool) error {
	unresolved, err := s.resolveAuthor(ctx, a, payload, replace)
	if err != nil {
		return err
	}

	assignSlug(a)

	violations := &model.ValidationError{}
	if err := model.ValidateArticle(a); err != nil {
		var ve *model.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		violations.Merge(ve)
	}
	if unresolved != 0 {
		violations.Replace("author", model.CodeNotFound, fmt.Sprintf("User %d does not exist.", unresolved))
	}
	if violations.HasViolations() {
		return violations
	}

	existing := a.ID != 0
	err = database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		// author nhúng mới (không có id) được tạo trước
		if a.Author.ID == 0 {
			if err := s.users.WithTx(tx).Create(ctx, a.Author); err != nil {
				return err
			}
		}

		articles := s.articles.WithTx(tx)
		if existing {
			return articles.Update(ctx, a)
		}
		return articles.Create(ctx, a)
	})
	if err != nil {
		return err
	}

	if existing {
		s.articles.Invalidate(ctx, a.ID)
	}
	return nil
}

// resolveAuthor gán author theo payload.
// Trả về id được tham chiếu nhưng không tồn tại (0 nếu không có).
func (s *articleService) resolveAuthor(ctx context.Context, a *model.Article, payload *model.ArticlePayload, replace bool) (int64, error) {
	ref := payload.Author
	switch {
	case ref.Present() && ref.Value.IsNew():
		fields, err := model.DecodeUserFields(ref.Value.Fields, model.ArticleWrite)
		if err != nil {
			return 0, err
		}
		author := model.NewUser()
		fields.ApplyTo(author, false)
		a.SetAuthor(author)

	case ref.Present():
		author, err := s.users.GetByID(ctx, ref.Value.ID)
		if errors.Is(err, model.ErrUserNotFound) {
			a.SetAuthor(nil)
			return ref.Value.ID, nil
		}
		if err != nil {
			return 0, err
		}
		a.SetAuthor(author)

	case ref.Set, replace:
		a.SetAuthor(nil)
	}
	return 0, nil
}

// assignSlug sinh slug từ title khi chưa có
func assignSlug(a *model.Article) {
	if a.Slug != nil || a.Title == "" {
		return
	}
	if slug := utils.GenerateSlug(a.Title); slug != "" {
		a.Slug = &slug
	}
}
