package router

import (
	"github.com/gin-gonic/gin"

	"creditpipe/internal/config"
	"creditpipe/internal/handler"
	"creditpipe/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	reportH *handler.ReportHandler,
	tradelineH *handler.TradelineHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(&cfg.JWT))

	// Report submission and job status
	reports := protected.Group("/reports")
	reports.POST("", reportH.Submit)
	reports.POST("/sync", reportH.SubmitSync)
	reports.GET("/:id", reportH.GetJob)
	reports.POST("/:id/retry", reportH.Retry)

	// Tradeline queries and export
	tradelines := protected.Group("/tradelines")
	tradelines.GET("", tradelineH.List)
	tradelines.GET("/negative", tradelineH.ListNegative)
	tradelines.GET("/export", tradelineH.Export)
	tradelines.DELETE("/:id", tradelineH.Delete)

	return r
}
