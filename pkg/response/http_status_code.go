package response

import (
	"net/http"

	"wall-service/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	MsgInvalidInput   = "Invalid input data"
	MsgUnauthorized   = "Unauthorized"
	MsgForbidden      = "Forbidden"
	MsgNotFound       = "Not found"
	MsgConflict       = "Conflict"
	MsgTooManyRequest = "Rate limit exceeded"
	MsgInternal       = "Internal server error"
	MsgUnavailable    = "Service unavailable"
)

// message
var msg = map[int]string{
	http.StatusBadRequest:          MsgInvalidInput,
	http.StatusUnauthorized:        MsgUnauthorized,
	http.StatusForbidden:           MsgForbidden,
	http.StatusNotFound:            MsgNotFound,
	http.StatusConflict:            MsgConflict,
	http.StatusTooManyRequests:     MsgTooManyRequest,
	http.StatusInternalServerError: MsgInternal,
	http.StatusServiceUnavailable:  MsgUnavailable,
}

// StatusMessage returns the default message for an HTTP status
func StatusMessage(status int) string {
	if m, ok := msg[status]; ok {
		return m
	}
	return http.StatusText(status)
}

// Error writes an ErrorResponse and aborts the chain. An empty message uses
// the status default.
func Error(c *gin.Context, status int, message, details string) {
	if message == "" {
		message = StatusMessage(status)
	}
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Code:    status,
		Message: message,
		Details: details,
	})
}

// Success writes a SuccessResponse with status 200
func Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: message})
}
