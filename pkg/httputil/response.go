package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saloonly/booking-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// statusOf maps engine error codes to HTTP statuses. Conflict-class
// conditions get 409 so well-behaved clients re-fetch availability and
// retry; the engine itself never deals in status codes.
func statusOf(code errors.ErrorCode) int {
	switch code {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrBookingConflict, errors.ErrIntraBatchConflict:
		return http.StatusConflict
	case errors.ErrPastDate, errors.ErrClosed, errors.ErrOutOfHours,
		errors.ErrOutOfSpecialHours, errors.ErrUnknownService,
		errors.ErrIdentity, errors.ErrBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   &Error{Code: errors.ErrInternal, Message: "internal server error"},
		})
		return
	}

	c.JSON(statusOf(appErr.Code), Response{
		Success: false,
		Error:   &Error{Code: appErr.Code, Message: appErr.Message},
	})
}

// RespondWithBadRequest reports a malformed request before it reaches
// the engine (binding or parsing failures).
func RespondWithBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   &Error{Code: errors.ErrBadRequest, Message: message},
	})
}
