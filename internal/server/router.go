// Package server assembles the gateway's HTTP surface: the completion
// endpoint, the storefront collaborator endpoints, health and metrics,
// and the request middleware stack.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/launchpad-demo/ai-gateway/internal/gateway"
	"github.com/launchpad-demo/ai-gateway/internal/ports"
)

// NewRouter builds the gin engine with the full middleware stack and
// route table.
func NewRouter(
	engine *gateway.Engine,
	holder *gateway.ClientHolder,
	collector ports.MetricsCollector,
	logger *zap.Logger,
) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	if collector != nil {
		router.Use(requestMetrics(collector))
	}
	router.Use(cors.Default())

	handler := NewHandler(engine, holder, logger)

	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/ai-config", handler.Completion)
		api.GET("/flags/:key", handler.Flag)
		api.POST("/events", handler.Event)
	}

	return router
}
