package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	info := NewInfoController(cfg.Version)
	health := NewHealthController(cfg.TempDir, cfg.Version)
	convert := NewConvertController(cfg.Converter, cfg.Stager, cfg.Auditor, cfg.Logger, cfg.MaxUploadBytes)

	router.GET("/", info.Info)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Conversion endpoints
	conversions := router.Group("/convert")
	if cfg.RateLimit.Enabled() {
		conversions.Use(NewRateLimiter(cfg.RateLimit).Middleware())
	}
	conversions.POST("", convert.ConvertDirectory)
	conversions.POST("/upload", convert.ConvertUpload)

	return router
}
