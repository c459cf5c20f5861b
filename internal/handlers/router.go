package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the HTTP settings the router needs
type RouterConfig struct {
	GinMode        string
	AllowedOrigins []string
}

// NewRouter wires the middleware and every API route
func NewRouter(cfg RouterConfig, h *RecommendHandler) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Prometheus())
	r.Use(CORS(cfg.AllowedOrigins))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/recommend", h.Recommend)
		api.POST("/detect-and-recommend", h.DetectAndRecommend)
		api.GET("/languages", h.Languages)
		api.GET("/health", h.Health)
		api.GET("/stats", h.Stats)
	}

	return r
}
