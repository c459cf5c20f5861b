package render

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error types reported in the error envelope
const (
	ValidationError    = "ValidationError"
	ConfigurationError = "ConfigurationError"
	InternalError      = "InternalError"
	TimeoutError       = "TimeoutError"
)

// ErrNotConfigured is the message sent when no provider credential was supplied
const ErrNotConfigured = "YouTube API key not configured. Please set YOUTUBE_API_KEY in the environment."

// ErrorResponse is the envelope for every failed API call
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorType string `json:"error_type,omitempty"`
}

// Success writes a 200 response with success:true merged into body
func Success(c *gin.Context, body gin.H) {
	out := gin.H{"success": true}
	for k, v := range body {
		out[k] = v
	}
	c.JSON(http.StatusOK, out)
}

// Error writes the failure envelope
func Error(c *gin.Context, status int, message, errorType string) {
	c.JSON(status, ErrorResponse{
		Success:   false,
		Error:     message,
		ErrorType: errorType,
	})
}

// ErrorWith writes the failure envelope plus extra fields, such as the
// detected emotion the client should still see
func ErrorWith(c *gin.Context, status int, message, errorType string, extra gin.H) {
	out := gin.H{
		"success": false,
		"error":   message,
	}
	if errorType != "" {
		out["error_type"] = errorType
	}
	for k, v := range extra {
		out[k] = v
	}
	c.JSON(status, out)
}

// NotConfigured reports that the recommendation engine could not be built
func NotConfigured(c *gin.Context, extra gin.H) {
	ErrorWith(c, http.StatusServiceUnavailable, ErrNotConfigured, ConfigurationError, extra)
}
