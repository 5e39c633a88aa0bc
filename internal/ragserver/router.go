package ragserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/chethannhub/RAG-PDF-APP/internal/ragserver/handler"
)

// newRouter builds the gin engine with all routes registered.
func newRouter(mode string, h *handler.RAGHandler) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), accessLog())

	r.GET("/healthz", h.Healthz)

	v1 := r.Group("/api/v1")
	rag := v1.Group("/rag")
	{
		rag.POST("/ingest", h.Ingest)
		rag.POST("/query", h.Query)
		rag.GET("/stats", h.Stats)
	}

	return r
}

// accessLog logs each request through the global structured logger.
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Infow("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}
