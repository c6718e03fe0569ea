package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timmy/jobtrack/internal/apperr"
	"github.com/timmy/jobtrack/internal/logger"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Error     apperr.Code `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// RespondJSON writes a success envelope.
func RespondJSON(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: now(),
	})
}

// RespondError writes a failure envelope. Internal errors are reported with
// a generic message; their cause has already been logged.
func RespondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		logger.FromContext(c.Request.Context()).WithError(err).Error("Request failed")
	}
	c.JSON(status, Response{
		Success:   false,
		Error:     apperr.CodeOf(err),
		Message:   apperr.PublicMessage(err),
		Timestamp: now(),
	})
}
