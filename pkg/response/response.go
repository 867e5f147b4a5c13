package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/clientdesk/clientdesk/pkg/errors"
)

// Response defines the base API payload.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Source    string      `json:"source,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// ErrorInfo holds error details to send to clients.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a JSON success response.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// SuccessWithSource writes a JSON success response annotated with the cache or
// store origin of the returned data.
func SuccessWithSource(c *gin.Context, statusCode int, data interface{}, source string) {
	c.JSON(statusCode, Response{
		Success:   true,
		Data:      data,
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Error writes a JSON error response derived from an AppError.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	c.JSON(status, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    appErr.Code,
			Message: appErr.Message,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
