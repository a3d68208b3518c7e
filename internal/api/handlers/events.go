package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"argus-worker-go/internal/logging"
	"argus-worker-go/internal/services/events"
	"argus-worker-go/internal/services/thresholds"
)

type EventHandler struct {
	thresholds *thresholds.Service
	events     *events.Registry
}

func NewEventHandler(thresholdSvc *thresholds.Service, eventReg *events.Registry) *EventHandler {
	return &EventHandler{thresholds: thresholdSvc, events: eventReg}
}

type AddEventRequest struct {
	EventType       string   `json:"event_type" binding:"required" example:"graduation"`
	Description     string   `json:"description" binding:"required" example:"Spring graduation ceremony"`
	DurationHours   float64  `json:"duration_hours" binding:"required" example:"4"`
	CrowdMultiplier float64  `json:"crowd_multiplier" example:"2.5"`
	TargetCountries []string `json:"target_countries"`
}

type RemoveEventsResponse struct {
	EventType string `json:"event_type"`
	Removed   int    `json:"removed"`
}

// @Summary List events
// @Description List all registered event windows, including generated prayer windows
// @Tags events
// @Accept json
// @Produce json
// @Success 200 {array} models.EventWindow
// @Router /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	c.JSON(http.StatusOK, h.events.Events())
}

// @Summary Add event
// @Description Register an ad-hoc event window starting now. When no multiplier is given, the preset for the event type applies.
// @Tags events
// @Accept json
// @Produce json
// @Param event body AddEventRequest true "Event definition"
// @Success 201 {object} models.EventSummary
// @Failure 400 {object} map[string]interface{}
// @Router /events [post]
func (h *EventHandler) AddEvent(c *gin.Context) {
	var req AddEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.Warn(c).Err(err).Msg("Invalid event request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DurationHours <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duration_hours must be positive"})
		return
	}

	duration := time.Duration(req.DurationHours * float64(time.Hour))
	summary := h.thresholds.AddCustomEvent(req.EventType, req.Description, duration, req.CrowdMultiplier, req.TargetCountries)
	c.JSON(http.StatusCreated, summary)
}

// @Summary Remove events
// @Description Remove all event windows of the given type
// @Tags events
// @Accept json
// @Produce json
// @Param type path string true "Event type"
// @Success 200 {object} RemoveEventsResponse
// @Router /events/{type} [delete]
func (h *EventHandler) RemoveEvents(c *gin.Context) {
	eventType := c.Param("type")
	removed := h.events.RemoveByType(eventType)
	c.JSON(http.StatusOK, RemoveEventsResponse{EventType: eventType, Removed: removed})
}

// @Summary Refresh prayer windows
// @Description Rebuild today's prayer windows from the location's religious majority
// @Tags events
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /events/prayer/refresh [post]
func (h *EventHandler) RefreshPrayerWindows(c *gin.Context) {
	scheduled := h.thresholds.RefreshPrayerWindows(time.Now())
	c.JSON(http.StatusOK, gin.H{"scheduled": scheduled})
}
