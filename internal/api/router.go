package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/timmy/jobtrack/internal/api/handler"
	"github.com/timmy/jobtrack/internal/api/middleware"
	"github.com/timmy/jobtrack/internal/logger"
	"github.com/timmy/jobtrack/internal/service"
)

// RouterConfig holds the HTTP surface settings.
type RouterConfig struct {
	Mode   string
	CORS   middleware.CORSConfig
	Auth   middleware.AuthConfig
	Logger *logger.Logger
	// Ping checks the database for /health; nil reports liveness only.
	Ping func(ctx context.Context) error
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(jobService *service.JobService, cfg RouterConfig) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORS))

	healthHandler := handler.NewHealthHandler(cfg.Ping)
	jobHandler := handler.NewJobHandler(jobService)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.Auth))
	{
		jobs := v1.Group("/jobs")
		jobs.GET("", jobHandler.ListJobs)
		jobs.POST("", jobHandler.CreateJob)
		jobs.GET("/stats", jobHandler.GetStats)
		jobs.GET("/:id", jobHandler.GetJob)
		jobs.PATCH("/:id", jobHandler.UpdateJob)
		jobs.PUT("/:id", jobHandler.UpdateJob)
		jobs.DELETE("/:id", jobHandler.DeleteJob)
	}

	return r
}
