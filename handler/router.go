package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tieubaoca/docsum-be/middleware"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with middleware and every route registered.
func NewRouter(summarize *SummarizeHandler, health *HealthHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Metrics(),
		NewCorsMiddleware(),
	)

	router.GET("/health", health.HandleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/summarize", summarize.HandleSummarize)
	router.POST("/create-notes", summarize.HandleCreateNotes)
	router.POST("/summarize-and-notes", summarize.HandleSummarizeAndNotes)
	return router
}
