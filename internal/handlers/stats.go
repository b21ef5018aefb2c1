package handlers

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// In-process ingest counters. The pipeline itself keeps no state; these exist
// only for operational visibility.
var (
	statsReceived  atomic.Int64
	statsPublished atomic.Int64
	statsRejected  atomic.Int64
)

// RegisterStatsRoutes registers the operational counters endpoint.
//
// GET /stats
// - received: bodies parsed (valid or not)
// - published: events acknowledged by the stream
// - rejected: 4xx outcomes (parse or validation)
func RegisterStatsRoutes(r gin.IRoutes) {
	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"received":  statsReceived.Load(),
			"published": statsPublished.Load(),
			"rejected":  statsRejected.Load(),
		})
	})
}
