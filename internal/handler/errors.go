package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"snapptale/internal/export"
	"snapptale/internal/model"
)

// ValidationError 表示请求本身不合法，对应 400
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func badRequest(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// statusFor 把业务错误映射为 HTTP 状态码
func statusFor(err error) int {
	var validation *ValidationError
	var exportErr *export.ExportError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, export.ErrExportInProgress):
		return http.StatusConflict
	case errors.Is(err, export.ErrEmptyStory), errors.As(err, &exportErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError 写出 JSON 错误体。500 固定返回 "Internal Server Error" 并在 details 中附上原因
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.AbortWithStatusJSON(status, model.ErrorResponse{Error: "Internal Server Error", Details: err.Error()})
		return
	}
	c.AbortWithStatusJSON(status, model.ErrorResponse{Error: err.Error()})
}
