package api

import (
	"net/http"
	"time"

	"signup-api/internal/middleware"
	"signup-api/internal/response"
	"signup-api/internal/services"
	"signup-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// TrackEventRequest represents a funnel analytics event from the client
type TrackEventRequest struct {
	Event string                 `json:"event" binding:"required,max=100"`
	Data  map[string]interface{} `json:"data"`
}

// TrackEvent records a funnel analytics event for the session, enriched with
// the session's affiliate params when any were captured.
// POST /signup/events
func TrackEvent(c *gin.Context) {
	var req TrackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid event payload")
		return
	}

	sessionID := middleware.SessionID(c)
	event := services.AnalyticsEvent{
		Event:     req.Event,
		Timestamp: time.Now().Format(time.RFC3339),
		Data:      req.Data,
	}

	if params, err := sessions.AffiliateParams(c.Request.Context(), sessionID); err == nil && len(params) > 0 {
		event.AffiliateParams = params
	}

	if err := sessions.AppendEvent(c.Request.Context(), sessionID, event); err != nil {
		logging.Errorf("Failed to record event %s: %v", req.Event, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to record event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetEvents returns the session's recorded analytics events in order
// GET /signup/events
func GetEvents(c *gin.Context) {
	events, err := sessions.Events(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		logging.Errorf("Failed to load events: %v", err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "events": events})
}
