package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/wardrobe/backend/config"
	"github.com/wardrobe/backend/internal/infrastructure/metrics"
)

// SetupRouter creates and configures the Gin router. m may be nil, in which
// case no metrics are recorded or exposed.
func SetupRouter(cfg *config.Config, handler *Handler, m *metrics.Metrics) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(slog.Default()))
	if m != nil {
		router.Use(MetricsMiddleware(m))
	}
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		analysis := v1.Group("/analysis")
		{
			analysis.POST("/text", handler.AnalyzeText)
			analysis.POST("/quality", handler.QualityScore)
			analysis.POST("/image", handler.AnalyzeImage)
		}

		garments := v1.Group("/garments")
		{
			garments.POST("", handler.CreateGarment)
			garments.GET("", handler.ListGarments)
			garments.POST("/import", handler.ImportReceipt)
			garments.GET("/:id", handler.GetGarment)
			garments.DELETE("/:id", handler.DeleteGarment)
		}
	}

	return router
}
