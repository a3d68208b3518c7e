package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"argus-worker-go/internal/services/thresholds"
)

type ThresholdHandler struct {
	thresholds *thresholds.Service
}

func NewThresholdHandler(thresholdSvc *thresholds.Service) *ThresholdHandler {
	return &ThresholdHandler{thresholds: thresholdSvc}
}

// @Summary Location context
// @Description Get the resolved location context driving threshold adjustment
// @Tags thresholds
// @Accept json
// @Produce json
// @Success 200 {object} models.LocationContext
// @Failure 404 {object} map[string]interface{}
// @Router /context [get]
func (h *ThresholdHandler) GetLocationContext(c *gin.Context) {
	ctx, ok := h.thresholds.LocationContext()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no location context configured"})
		return
	}
	c.JSON(http.StatusOK, ctx)
}

// @Summary Global thresholds
// @Description Get the current context-adjusted crowd thresholds for the whole site
// @Tags thresholds
// @Accept json
// @Produce json
// @Success 200 {object} models.ThresholdReport
// @Router /thresholds [get]
func (h *ThresholdHandler) GetGlobalThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, h.thresholds.GlobalThresholds(time.Now()))
}

// @Summary Camera thresholds
// @Description Get the context-adjusted crowd thresholds for one camera
// @Tags thresholds
// @Accept json
// @Produce json
// @Param id path string true "Camera ID"
// @Success 200 {object} models.ThresholdReport
// @Router /cameras/{id}/thresholds [get]
func (h *ThresholdHandler) GetCameraThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, h.thresholds.CameraThresholds(c.Param("id"), time.Now()))
}
