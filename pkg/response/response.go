package response

import (
	"errors"
	"net/http"

	"backend/pkg/pagination"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Body is the standard API envelope.
type Body struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message,omitempty"`
	Data       interface{}      `json:"data,omitempty"`
	Errors     interface{}      `json:"errors,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

// OK writes a success envelope with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// OKMessage writes a success envelope with a message and optional data.
func OKMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Message: message, Data: data})
}

// Created writes a 201 envelope with a message and data.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Message: message, Data: data})
}

// List writes a success envelope with data and page metadata.
func List(c *gin.Context, data interface{}, meta pagination.Meta) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data, Pagination: &meta})
}

// Fail writes a failure envelope with the given status and message.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Body{Success: false, Message: message})
}

// ValidationFail writes a 400 envelope with per-field errors.
func ValidationFail(c *gin.Context, message string, fieldErrors interface{}) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Message: message, Errors: fieldErrors})
}

// Error categories raised by services. Handlers map them onto HTTP statuses
// through FromError; anything unrecognized becomes a generic 500 so internal
// details never leak to the client.
type kind int

const (
	kindBadRequest kind = iota
	kindUnauthorized
	kindForbidden
	kindNotFound
	kindConflict
)

// AppError carries a client-safe message with an HTTP category.
type AppError struct {
	Kind    kind
	Message string
}

func (e *AppError) Error() string { return e.Message }

func BadRequest(message string) error { return &AppError{Kind: kindBadRequest, Message: message} }
func Unauthorized(message string) error {
	return &AppError{Kind: kindUnauthorized, Message: message}
}
func Forbidden(message string) error { return &AppError{Kind: kindForbidden, Message: message} }
func NotFound(message string) error  { return &AppError{Kind: kindNotFound, Message: message} }

// Conflict reports duplicates. It surfaces as 400, matching the rest of the
// request validation failures.
func Conflict(message string) error { return &AppError{Kind: kindConflict, Message: message} }

// FromError translates a service error into a failure envelope.
func FromError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch appErr.Kind {
		case kindBadRequest, kindConflict:
			status = http.StatusBadRequest
		case kindUnauthorized:
			status = http.StatusUnauthorized
		case kindForbidden:
			status = http.StatusForbidden
		case kindNotFound:
			status = http.StatusNotFound
		}
		Fail(c, status, appErr.Message)
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Fail(c, http.StatusNotFound, "Resource not found")
		return
	}
	Fail(c, http.StatusInternalServerError, "Internal server error")
}
