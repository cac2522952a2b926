package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResponseData represents the structure of a standard API response for
// endpoints outside the record pipeline.
type ResponseData struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

// StatusFor maps a failure reason to its HTTP status code.
func StatusFor(reason string) int {
	switch reason {
	case "validation":
		return http.StatusBadRequest
	case "duplicate":
		return http.StatusConflict
	case "not-found":
		return http.StatusNotFound
	case "unavailable":
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, ResponseData{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standard error response.
func Error(c *gin.Context, statusCode int, errorMessage string) {
	c.JSON(statusCode, ResponseData{
		Message: errorMessage,
	})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, errorMessage string) {
	c.JSON(http.StatusBadRequest, ResponseData{Message: errorMessage, Reason: "validation"})
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, errorMessage)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, errorMessage string) {
	Error(c, http.StatusForbidden, errorMessage)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, errorMessage string) {
	c.JSON(http.StatusNotFound, ResponseData{Message: errorMessage, Reason: "not-found"})
}

// Unavailable sends a 503 Service Unavailable error response.
func Unavailable(c *gin.Context, errorMessage string) {
	c.JSON(http.StatusServiceUnavailable, ResponseData{Message: errorMessage, Reason: "unavailable"})
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, errorMessage)
}
