package http

import (
	"github.com/gin-gonic/gin"
	"github.com/shopmind/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	if cfg.RateLimit.PerIP > 0 {
		router.Use(NewRateLimiter(cfg.RateLimit.PerIP).Middleware())
	}

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/chat", handler.Chat)
		v1.POST("/question", handler.SuggestQuestion)
		v1.POST("/cart/add", handler.AddToCart)

		// Ingestion trigger, gated behind the shared secret
		v1.POST("/sync", SyncAuthMiddleware(cfg.Sync.Secret), handler.Sync)
	}

	return router
}
