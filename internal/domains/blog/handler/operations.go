package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-api/internal/domains/blog/model"
)

// Operation names
const (
	OpList    = "list"
	OpGet     = "get"
	OpCreate  = "create"
	OpReplace = "replace"
	OpPatch   = "patch"
	OpDelete  = "delete"
	OpNested  = "nested"
)

// Operation là một dòng của bảng resource x operation -> (method, path, handler)
type Operation struct {
	Resource model.Resource
	Name     string
	Method   string
	Path     string
	Handler  gin.HandlerFunc
}

// Operations liệt kê toàn bộ endpoint của API
func Operations(users *UserHandler, articles *ArticleHandler) []Operation {
	return []Operation{
		{model.ResourceUser, OpList, http.MethodGet, "/users", users.List},
		{model.ResourceUser, OpCreate, http.MethodPost, "/users", users.Create},
		{model.ResourceUser, OpGet, http.MethodGet, "/users/:id", users.Get},
		{model.ResourceUser, OpReplace, http.MethodPut, "/users/:id", users.Replace},
		{model.ResourceUser, OpPatch, http.MethodPatch, "/users/:id", users.Patch},
		{model.ResourceUser, OpDelete, http.MethodDelete, "/users/:id", users.Delete},
		{model.ResourceUser, OpNested, http.MethodGet, "/users/:id/articles", articles.UserArticles},

		{model.ResourceArticle, OpList, http.MethodGet, "/articles", articles.List},
		{model.ResourceArticle, OpCreate, http.MethodPost, "/articles", articles.Create},
		{model.ResourceArticle, OpGet, http.MethodGet, "/articles/:id", articles.Get},
		{model.ResourceArticle, OpReplace, http.MethodPut, "/articles/:id", articles.Replace},
		{model.ResourceArticle, OpPatch, http.MethodPatch, "/articles/:id", articles.Patch},
		{model.ResourceArticle, OpDelete, http.MethodDelete, "/articles/:id", articles.Delete},
		{model.ResourceArticle, OpNested, http.MethodGet, "/articles/:id/author", users.ArticleAuthor},
	}
}

// Register gắn từng operation vào router group
func Register(r gin.IRoutes, ops []Operation) {
	for _, op := range ops {
		r.Handle(op.Method, op.Path, op.Handler)
	}
}
