package response

import (
	"net/http"

	xerrors "pulse-agent-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Response defines the standard API error envelope. Success responses use
// operation-specific bodies; errors always use this shape.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK sends a successful response with the given body as-is.
func OK(c *gin.Context, status int, body interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, body)
}

// Error sends a standardized error response.
func Error(c *gin.Context, code int, message string, err error) {
	c.Abort()

	resp := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(code, resp)
}

// FromError maps a service error to its HTTP status and sends the envelope.
func FromError(c *gin.Context, err error) {
	Error(c, xerrors.HTTPStatus(err), xerrors.MessageOrDefault(err, "request failed"), err)
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}
