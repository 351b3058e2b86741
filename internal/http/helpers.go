package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/library"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
// Code carries the domain error kind through to clients (kind-preserving,
// unlike a blanket 5xx).
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: library.ErrCodeValidation})
}

// respondDomainError maps a core failure onto an HTTP status, preserving
// the error kind in the response body.
func respondDomainError(c *gin.Context, err error) {
	code := library.CodeOf(err)

	var status int
	switch code {
	case library.ErrCodeValidation:
		status = http.StatusBadRequest
	case library.ErrCodeNotFound:
		status = http.StatusNotFound
	case library.ErrCodeConflict, library.ErrCodeState:
		status = http.StatusConflict
	case library.ErrCodePermission:
		status = http.StatusForbidden
	default:
		log.Printf("Internal error (%s %s): %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "store operation failed", Code: library.ErrCodeInfra})
		return
	}

	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}
