// Package response defines the uniform API envelope.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint returns.
type Response struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data,omitempty"`
	RequestID  string      `json:"request_id,omitempty"`
}

// PageData wraps paginated list payloads.
type PageData struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// Success writes a 200 envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		StatusCode: CodeSuccess,
		Msg:        "ok",
		Data:       data,
		RequestID:  requestID(c),
	})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		StatusCode: CodeSuccess,
		Msg:        "ok",
		Data:       data,
		RequestID:  requestID(c),
	})
}

// Error writes an error envelope with the HTTP status implied by the code.
func Error(c *gin.Context, code int, msg string) {
	c.JSON(httpStatus(code), Response{
		StatusCode: code,
		Msg:        msg,
		RequestID:  requestID(c),
	})
}

// AbortError writes an error envelope and stops the handler chain.
func AbortError(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(httpStatus(code), Response{
		StatusCode: code,
		Msg:        msg,
		RequestID:  requestID(c),
	})
}

func requestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

func httpStatus(code int) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
