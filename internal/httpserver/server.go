package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pulseboard/ingestion-service/internal/auth"
	"github.com/pulseboard/ingestion-service/internal/config"
	"github.com/pulseboard/ingestion-service/internal/handlers"
)

// NewRouter wires public endpoints and the ingest pipeline.
// Public: /health, /ready, /stats, OPTIONS preflight
// Ingest: route pair selected by the configured schema generation
func NewRouter(cfg config.Config, resolver auth.Resolver, pub handlers.Publisher) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), corsHeaders())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the stream broker is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := pub.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	handlers.RegisterStatsRoutes(r)

	// CORS preflight succeeds on any path.
	r.OPTIONS("/*path", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	switch cfg.SchemaGeneration {
	case config.GenerationExpanded:
		// Expanded bodies carry tenant and caller identity themselves.
		handlers.RegisterExpandedRoutes(r, pub)
	default:
		// Compact bodies rely on the bearer credential for tenant context.
		authGroup := r.Group("/")
		authGroup.Use(auth.Middleware(resolver))
		handlers.RegisterCompactRoutes(authGroup, pub)
	}

	return r
}

// corsHeaders applies the fixed cross-origin policy to every response.
func corsHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
		c.Next()
	}
}
