package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"blog-api/internal/domains/blog/model"
	"blog-api/internal/domains/blog/service"
	"blog-api/internal/shared/response"
)

// Options dùng chung cho các handler
type Options struct {
	BaseURL      string // prefix của IRI / Location, vd "/api/v1"
	ItemsPerPage int
	Now          func() time.Time
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) iri(resource model.Resource, id int64) string {
	return o.BaseURL + "/" + string(resource) + "/" + strconv.FormatInt(id, 10)
}

type UserHandler struct {
	service service.UserServiceInterface
	opts    Options
}

func NewUserHandler(svc service.UserServiceInterface, opts Options) *UserHandler {
	return &UserHandler{service: svc, opts: opts}
}

func (h *UserHandler) project(u *model.User, groups model.Groups, props *model.PropertyFilter) model.Document {
	return props.Apply(model.ProjectUser(u, groups, h.opts.now()))
}

func (h *UserHandler) collection(c *gin.Context, page model.Page[*model.User], p model.Pagination) {
	props := model.ParseProperties(c.Request.URL.Query())
	docs := make([]model.Document, 0, len(page.Items))
	for _, u := range page.Items {
		docs = append(docs, h.project(u, model.UserCollectionRead, props))
	}
	response.Collection(c, docs, meta(p, page.Total))
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /users?page=1&properties[]=email
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) List(c *gin.Context) {
	pagination := parsePagination(c.Request.URL.Query(), h.opts.ItemsPerPage)

	page, err := h.service.List(c.Request.Context(), model.UserFilter{Pagination: pagination})
	if err != nil {
		handleError(c, err)
		return
	}

	h.collection(c, page, pagination)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /users/:id
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	u, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	props := model.ParseProperties(c.Request.URL.Query())
	response.Success(c, http.StatusOK, h.project(u, model.UserItemRead, props))
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /users
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) Create(c *gin.Context) {
	payload, ok := h.decode(c)
	if !ok {
		return
	}

	u, err := h.service.Create(c.Request.Context(), payload)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, h.opts.iri(model.ResourceUser, u.ID), h.project(u, model.UserCollectionRead, nil))
}

// ════════════════════════════════════════════════════════════════
// REPLACE: PUT /users/:id
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) Replace(c *gin.Context) {
	h.update(c, h.service.Replace)
}

// ════════════════════════════════════════════════════════════════
// PATCH: PATCH /users/:id
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) Patch(c *gin.Context) {
	h.update(c, h.service.Patch)
}

type userUpdateFunc func(ctx context.Context, id int64, payload *model.UserPayload) (*model.User, error)

func (h *UserHandler) update(c *gin.Context, apply userUpdateFunc) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	payload, ok := h.decode(c)
	if !ok {
		return
	}

	u, err := apply(c.Request.Context(), id, payload)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, h.project(u, model.UserCollectionRead, nil))
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /users/:id
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) Delete(c *gin.Context) {
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
// NESTED: GET /articles/:id/author
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) ArticleAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	pagination := parsePagination(c.Request.URL.Query(), h.opts.ItemsPerPage)

	page, err := h.service.ListByArticle(c.Request.Context(), id, pagination)
	if err != nil {
		handleError(c, err)
		return
	}

	h.collection(c, page, pagination)
}

func (h *UserHandler) decode(c *gin.Context) (*model.UserPayload, bool) {
	body, ok := readBody(c)
	if !ok {
		return nil, false
	}
	payload, err := model.DecodeUserPayload(body, model.UserWrite)
	if err != nil {
		handleError(c, err)
		return nil, false
	}
	return payload, true
}
