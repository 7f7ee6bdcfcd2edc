package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"blog-api/internal/domains/blog/model"
	"blog-api/internal/domains/blog/repository"
	"blog-api/pkg/database"
)

// userService implements UserServiceInterface
type userService struct {
	db       database.TxBeginner
	users    repository.UserRepositoryInterface
	articles repository.ArticleRepositoryInterface
}

func NewUserService(
	db database.TxBeginner,
	users repository.UserRepositoryInterface,
	articles repository.ArticleRepositoryInterface,
) UserServiceInterface {
	return &userService{db: db, users: users, articles: articles}
}

func (s *userService) List(ctx context.Context, filter model.UserFilter) (model.Page[*model.User], error) {
	return s.users.List(ctx, filter)
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	articles, err := s.articles.ListByAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, a := range articles {
		u.AddArticle(a)
	}
	return u, nil
}

func (s *userService) ListByArticle(ctx context.Context, articleID int64, pagination model.Pagination) (model.Page[*model.User], error) {
	// parent phải tồn tại, nếu không -> 404
	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		return model.Page[*model.User]{}, err
	}
	return s.users.List(ctx, model.UserFilter{ArticleScope: &articleID, Pagination: pagination})
}

func (s *userService) Create(ctx context.Context, payload *model.UserPayload) (*model.User, error) {
	u := model.NewUser()
	payload.ApplyTo(u, true)
	if err := s.save(ctx, u, payload); err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", u.ID).Msg("User created")
	return u, nil
}

func (s *userService) Replace(ctx context.Context, id int64, payload *model.UserPayload) (*model.User, error) {
	return s.update(ctx, id, payload, true)
}

func (s *userService) Patch(ctx context.Context, id int64, payload *model.UserPayload) (*model.User, error) {
	return s.update(ctx, id, payload, false)
}

func (s *userService) update(ctx context.Context, id int64, payload *model.UserPayload, replace bool) (*model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	payload.ApplyTo(u, replace)
	if err := s.save(ctx, u, payload); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	articleIDs, err := database.WithTransactionResult(ctx, s.db, func(tx pgx.Tx) ([]int64, error) {
		return s.users.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.users.Invalidate(ctx, id)
	s.articles.Invalidate(ctx, articleIDs...)

	log.Info().Int64("user_id", id).Int("articles_deleted", len(articleIDs)).Msg("User deleted")
	return nil
}

// ====================================
// WRITE PIPELINE
// ====================================

// save: sync relation -> validate -> check email -> persist trong một transaction
func (s *userService) save(ctx context.Context, u *model.User, payload *model.UserPayload) error {
	violations := &model.ValidationError{}

	orphans, err := s.syncArticles(ctx, u, payload, violations)
	if err != nil {
		return err
	}

	if err := s.validate(ctx, u, violations); err != nil {
		return err
	}
	if violations.HasViolations() {
		return violations
	}

	existing := u.ID != 0
	var reassigned []int64
	for _, a := range u.Articles {
		reassigned = append(reassigned, a.ID)
	}

	err = database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		users := s.users.WithTx(tx)
		articles := s.articles.WithTx(tx)

		if existing {
			if err := users.Update(ctx, u); err != nil {
				return err
			}
		} else if err := users.Create(ctx, u); err != nil {
			return err
		}

		if err := articles.DeleteMany(ctx, orphans); err != nil {
			return err
		}
		return articles.Reassign(ctx, u.ID, reassigned)
	})

	// race giữa ExistsByEmail và INSERT: unique constraint bắt được
	if errors.Is(err, model.ErrEmailTaken) {
		violations.Add("email", model.CodeConflict, model.MsgEmailTaken)
		return violations
	}
	if err != nil {
		return err
	}

	// cache chỉ bị xóa sau commit
	if existing {
		s.users.Invalidate(ctx, u.ID)
	}
	s.articles.Invalidate(ctx, append(orphans, reassigned...)...)
	return nil
}

// syncArticles đồng bộ collection article theo payload.
// Trả về id các article bị bỏ khỏi collection (orphan, sẽ bị xóa).
func (s *userService) syncArticles(
	ctx context.Context,
	u *model.User,
	payload *model.UserPayload,
	violations *model.ValidationError,
) ([]int64, error) {
	if !payload.Article.Set {
		return nil, nil
	}

	desired, err := s.resolveArticles(ctx, payload.Article.Value, violations)
	if err != nil {
		return nil, err
	}

	keep := make(map[int64]bool, len(desired))
	for _, a := range desired {
		keep[a.ID] = true
	}

	var orphans []int64
	for _, a := range append([]*model.Article{}, u.Articles...) {
		if !keep[a.ID] {
			u.RemoveArticle(a)
			orphans = append(orphans, a.ID)
		}
	}
	for _, a := range desired {
		u.AddArticle(a)
	}
	return orphans, nil
}

// resolveArticles: ref tới article không tồn tại -> violation not_found trên article[i]
func (s *userService) resolveArticles(ctx context.Context, refs []model.Ref, violations *model.ValidationError) ([]*model.Article, error) {
	var ids []int64
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}

	found, err := s.articles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.Article, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}

	out := make([]*model.Article, 0, len(refs))
	for i, ref := range refs {
		a, ok := byID[ref.ID]
		if !ok {
			violations.Add(fmt.Sprintf("article[%d]", i), model.CodeNotFound, fmt.Sprintf("Article %d does not exist.", ref.ID))
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// validate chạy toàn bộ rule và check email trùng, gom tất cả vào violations
func (s *userService) validate(ctx context.Context, u *model.User, violations *model.ValidationError) error {
	if err := model.ValidateUser(u); err != nil {
		var ve *model.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		violations.Merge(ve)
	}

	if u.Email == "" {
		return nil
	}
	taken, err := s.users.ExistsByEmail(ctx, u.Email, u.ID)
	if err != nil {
		return err
	}
	if taken {
		violations.Add("email", model.CodeConflict, model.MsgEmailTaken)
	}
	return nil
}
