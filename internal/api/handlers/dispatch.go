package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"argus-worker-go/internal/logging"
	"argus-worker-go/internal/models"
	"argus-worker-go/internal/services/dispatch"
)

type DispatchHandler struct {
	dispatch *dispatch.Service
}

func NewDispatchHandler(dispatchSvc *dispatch.Service) *DispatchHandler {
	return &DispatchHandler{dispatch: dispatchSvc}
}

type RegisterResponderRequest struct {
	ID       string          `json:"post_id" binding:"required" example:"post-main-gate"`
	Name     string          `json:"name" binding:"required" example:"Main Gate Booth"`
	Location models.GeoPoint `json:"location" binding:"required"`
	Active   bool            `json:"active"`
}

type DispatchRequest struct {
	CameraID     string                  `json:"camera_id" binding:"required" example:"cam-entrance-1"`
	IncidentType string                  `json:"incident_type" binding:"required" example:"unusual_gathering"`
	Severity     models.IncidentSeverity `json:"severity" binding:"required" example:"high"`
	Location     models.GeoPoint         `json:"location" binding:"required"`
	Description  string                  `json:"description" example:"Sustained gathering at main gate"`
}

type DispatchResponse struct {
	Incident   models.Incident        `json:"incident"`
	Responder  *models.ResponderMatch `json:"responder,omitempty"`
	Dispatched bool                   `json:"dispatched"`
}

// @Summary List responders
// @Description List all registered responder posts
// @Tags dispatch
// @Accept json
// @Produce json
// @Success 200 {array} models.ResponderPost
// @Router /responders [get]
func (h *DispatchHandler) ListResponders(c *gin.Context) {
	c.JSON(http.StatusOK, h.dispatch.Posts())
}

// @Summary Register responder
// @Description Register a responder post, or update it if the ID is known
// @Tags dispatch
// @Accept json
// @Produce json
// @Param post body RegisterResponderRequest true "Responder post"
// @Success 201 {object} models.ResponderPost
// @Failure 400 {object} map[string]interface{}
// @Router /responders [post]
func (h *DispatchHandler) RegisterResponder(c *gin.Context) {
	var req RegisterResponderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.Warn(c).Err(err).Msg("Invalid responder registration")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := models.ResponderPost{
		ID:       req.ID,
		Name:     req.Name,
		Location: req.Location,
		Active:   req.Active,
	}
	h.dispatch.RegisterPost(post)
	c.JSON(http.StatusCreated, post)
}

// @Summary Remove responder
// @Description Remove a responder post and its alert channel
// @Tags dispatch
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /responders/{id} [delete]
func (h *DispatchHandler) RemoveResponder(c *gin.Context) {
	id := c.Param("id")
	if !h.dispatch.RemovePost(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "responder post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post_id": id, "removed": true})
}

// @Summary Register alert channel
// @Description Mark a responder's alert channel as live so priority alerts are delivered
// @Tags dispatch
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Router /responders/{id}/channel [post]
func (h *DispatchHandler) RegisterChannel(c *gin.Context) {
	id := c.Param("id")
	h.dispatch.RegisterChannel(id)
	c.JSON(http.StatusOK, gin.H{"post_id": id, "channel": "live"})
}

// @Summary Unregister alert channel
// @Description Mark a responder's alert channel as gone; alerts are dropped, not queued
// @Tags dispatch
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Router /responders/{id}/channel [delete]
func (h *DispatchHandler) UnregisterChannel(c *gin.Context) {
	id := c.Param("id")
	h.dispatch.UnregisterChannel(id)
	c.JSON(http.StatusOK, gin.H{"post_id": id, "channel": "gone"})
}

// @Summary Find nearest responder
// @Description Find the closest active responder post to a location
// @Tags dispatch
// @Accept json
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Success 200 {object} models.ResponderMatch
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /responders/nearest [get]
func (h *DispatchHandler) FindNearest(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})
		return
	}

	match, ok := h.dispatch.FindNearest(models.GeoPoint{Lat: lat, Lng: lng})
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active responder post available"})
		return
	}
	c.JSON(http.StatusOK, match)
}

// @Summary Dispatch incident
// @Description Create an incident, select the nearest active responder and push alerts. Succeeds even when no responder is available.
// @Tags dispatch
// @Accept json
// @Produce json
// @Param incident body DispatchRequest true "Incident"
// @Success 200 {object} DispatchResponse
// @Failure 400 {object} map[string]interface{}
// @Router /incidents [post]
func (h *DispatchHandler) DispatchIncident(c *gin.Context) {
	var req DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.Warn(c).Err(err).Msg("Invalid dispatch request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident, match := h.dispatch.Dispatch(req.CameraID, req.IncidentType, req.Severity, req.Location, req.Description)
	c.JSON(http.StatusOK, DispatchResponse{
		Incident:   incident,
		Responder:  match,
		Dispatched: match != nil,
	})
}
