package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"blog-api/internal/domains/blog/model"
	"blog-api/internal/shared/middleware"
	"blog-api/internal/shared/response"
)

// parseID đọc :id, ghi 400 và trả false nếu không phải số nguyên dương
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid id format")
		return 0, false
	}
	return id, true
}

// readBody trả raw body, ghi 400 nếu body rỗng hoặc không đọc được
func readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		response.BadRequest(c, "Request body must be a JSON object")
		return nil, false
	}
	return body, true
}

// handleError map domain error sang HTTP status + envelope
func handleError(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)
	code := model.ToErrorCode(err)

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		response.ErrorWithDetails(c, status, code, "Validation failed", ve.Violations)
		return
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("Unhandled error")
		response.InternalServerError(c)
		return
	}

	response.ErrorResponse(c, status, code, err.Error())
}

func meta(p model.Pagination, total int64) response.Meta {
	return response.Meta{Page: p.Page, Limit: p.Limit, Total: total}
}
