package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-api/internal/domains/blog/model"
	"blog-api/internal/domains/blog/service"
	"blog-api/internal/shared/response"
)

type ArticleHandler struct {
	service service.ArticleServiceInterface
	opts    Options
}

func NewArticleHandler(svc service.ArticleServiceInterface, opts Options) *ArticleHandler {
	return &ArticleHandler{service: svc, opts: opts}
}

func (h *ArticleHandler) project(a *model.Article, groups model.Groups, props *model.PropertyFilter) model.Document {
	return props.Apply(model.ProjectArticle(a, groups, h.opts.now()))
}

func (h *ArticleHandler) collection(c *gin.Context, page model.Page[*model.Article], p model.Pagination) {
	props := model.ParseProperties(c.Request.URL.Query())
	docs := make([]model.Document, 0, len(page.Items))
	for _, a := range page.Items {
		docs = append(docs, h.project(a, model.ArticleCollectionRead, props))
	}
	response.Collection(c, docs, meta(p, page.Total))
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /articles?title=go&author[]=1&createdAt[after]=2024-01-01&isPublished=true&page=2
// ════════════════════════════════════════════════════════════════

func (h *ArticleHandler) List(c *gin.Context) {
	filter := parseArticleFilter(c.Request.URL.Query(), h.opts.ItemsPerPage)

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	h.collection(c, page, filter.Pagination)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /articles/:id
// ════════════════════════════════════════════════════════════════

func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	props := model.ParseProperties(c.Request.URL.Query())
	response.Success(c, http.StatusOK, h.project(a, model.ArticleItemRead, props))
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /articles
// ════════════════════════════════════════════════════════════════

func (h *ArticleHandler) Create(c *gin.Context) {
	payload, ok := h.decode(c)
	if !ok {
		return
	}

	a, err := h.service.Create(c.Request.Context(), payload)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, h.opts.iri(model.ResourceArticle, a.ID), h.project(a, model.ArticleCollectionRead, nil))
}

// ════════════════════════════════════════════════════════════════
// REPLACE / PATCH: PUT|PATCH /articles/:id
// ════════════════════════════════════════════════════════════════

func (h *ArticleHandler) Replace(c *gin.Context) {
	h.update(c, h.service.Replace)
}

func (h *ArticleHandler) Patch(c *gin.Context) {
	h.update(c, h.service.Patch)
}

type articleUpdateFunc func(ctx context.Context, id int64, payload *model.ArticlePayload) (*model.Article, error)

func (h *ArticleHandler) update(c *gin.Context, apply articleUpdateFunc) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	payload, ok := h.decode(c)
	if !ok {
		return
	}

	a, err := apply(c.Request.Context(), id, payload)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, h.project(a, model.ArticleCollectionRead, nil))
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /articles/:id
// ════════════════════════════════════════════════════════════════

func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	response.NoContent(c)
}

// ════════════════════════════════════════════════════════════════
// NESTED: GET /users/:id/articles
// ════════════════════════════════════════════════════════════════

func (h *ArticleHandler) UserArticles(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	filter := parseArticleFilter(c.Request.URL.Query(), h.opts.ItemsPerPage)

	page, err := h.service.ListByAuthor(c.Request.Context(), id, filter)
	if err != nil {
		handleError(c, err)
		return
	}

	h.collection(c, page, filter.Pagination)
}

func (h *ArticleHandler) decode(c *gin.Context) (*model.ArticlePayload, bool) {
	body, ok := readBody(c)
	if !ok {
		return nil, false
	}
	payload, err := model.DecodeArticlePayload(body, model.ArticleWrite)
	if err != nil {
		handleError(c, err)
		return nil, false
	}
	return payload, true
}
