package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timmy/jobtrack/internal/apperr"
	"github.com/timmy/jobtrack/internal/logger"
)

const healthPingTimeout = 2 * time.Second

// HealthHandler answers /health. With a ping func it also reports the
// database as unavailable when the ping fails.
type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler creates a health handler. ping may be nil.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			logger.FromContext(ctx).WithError(err).Warn("Health check ping failed")
			c.JSON(http.StatusServiceUnavailable, Response{
				Success:   false,
				Message:   "database unavailable",
				Error:     apperr.CodeInternal,
				Timestamp: now(),
			})
			return
		}
	}
	RespondJSON(c, http.StatusOK, "", gin.H{"status": "ok"})
}
