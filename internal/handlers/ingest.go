package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulseboard/ingestion-service/internal/auth"
	"github.com/pulseboard/ingestion-service/internal/enrich"
	"github.com/pulseboard/ingestion-service/internal/models"
)

// Publisher is the stream dependency handed to every ingest handler. The
// concrete implementation is shared across all in-flight requests and must be
// safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, events []models.Event) error
	Ping(ctx context.Context) error
}

// RegisterCompactRoutes registers the current-generation ingest endpoints.
//
// POST /view, POST /event (compact body)
// - Requires a Bearer credential (tenant + optional caller)
// - Returns 202 ACCEPTED once the stream write is acknowledged
func RegisterCompactRoutes(r gin.IRoutes, pub Publisher) {
	h := compactHandler(pub)
	r.POST("/view", h)
	r.POST("/event", h)
}

// RegisterExpandedRoutes registers the earlier-generation ingest endpoints.
//
// POST /view (page view), POST /track (custom event)
// - Tenant and caller identity travel in the body
func RegisterExpandedRoutes(r gin.IRoutes, pub Publisher) {
	r.POST("/view", pageViewHandler(pub))
	r.POST("/track", trackHandler(pub))
}

func compactHandler(pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := auth.From(c)

		var raw models.CompactEvent
		if !bindJSON(c, &raw) {
			return
		}
		if err := raw.Validate(); err != nil {
			reject(c, err)
			return
		}

		dispatch(c, pub, raw.Normalize(id.ProjectID, id.UserID), func() {
			c.String(http.StatusAccepted, "ACCEPTED")
		})
	}
}

func pageViewHandler(pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var raw models.PageViewEvent
		if !bindJSON(c, &raw) {
			return
		}
		if err := raw.Validate(); err != nil {
			reject(c, err)
			return
		}

		dispatch(c, pub, raw.Normalize(), acceptedJSON(c))
	}
}

func trackHandler(pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var raw models.TrackEvent
		if !bindJSON(c, &raw) {
			return
		}
		if err := raw.Validate(); err != nil {
			reject(c, err)
			return
		}

		dispatch(c, pub, raw.Normalize(), acceptedJSON(c))
	}
}

// bindJSON parses the request body and answers 400 on malformed JSON.
func bindJSON(c *gin.Context, dst any) bool {
	statsReceived.Add(1)
	if err := c.ShouldBindJSON(dst); err != nil {
		statsRejected.Add(1)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body: " + err.Error()})
		return false
	}
	return true
}

func reject(c *gin.Context, err error) {
	statsRejected.Add(1)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// dispatch enriches the normalized event and hands it to the stream. The
// request fails as a whole when the write does; redelivery is the caller's
// responsibility.
func dispatch(c *gin.Context, pub Publisher, ev models.Event, respond func()) {
	ev = enrich.Enrich(ev, c.Request)

	if err := pub.Publish(c.Request.Context(), []models.Event{ev}); err != nil {
		log.Printf("publish failed: project=%s type=%s: %v", ev.ProjectID, ev.EventType, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to publish event"})
		return
	}

	statsPublished.Add(1)
	respond()
}

func acceptedJSON(c *gin.Context) func() {
	return func() {
		c.JSON(http.StatusAccepted, gin.H{"success": true, "eventsReceived": 1})
	}
}
