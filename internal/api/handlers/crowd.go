package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"argus-worker-go/internal/logging"
	"argus-worker-go/internal/models"
	"argus-worker-go/internal/services/crowd"
	"argus-worker-go/internal/services/thresholds"
)

type CrowdHandler struct {
	thresholds *thresholds.Service
	crowds     *crowd.Manager
}

func NewCrowdHandler(thresholdSvc *thresholds.Service, crowdManager *crowd.Manager) *CrowdHandler {
	return &CrowdHandler{thresholds: thresholdSvc, crowds: crowdManager}
}

type AnalyzeRequest struct {
	Detections []models.Detection `json:"detections"`
	FrameArea  float64            `json:"frame_area" binding:"required" example:"307200"`
}

// @Summary Analyze frame
// @Description Analyze one frame of person detections against the camera's current thresholds
// @Tags crowd
// @Accept json
// @Produce json
// @Param id path string true "Camera ID"
// @Param frame body AnalyzeRequest true "Detections and frame area"
// @Success 200 {object} models.RiskAssessment
// @Failure 400 {object} map[string]interface{}
// @Router /cameras/{id}/analyze [post]
func (h *CrowdHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.Warn(c).Err(err).Msg("Invalid analyze request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cameraID := c.Param("id")
	report := h.thresholds.CameraThresholds(cameraID, time.Now())
	assessment := h.crowds.Analyze(cameraID, req.Detections, req.FrameArea, report.Thresholds)
	c.JSON(http.StatusOK, assessment)
}

// @Summary Crowd statistics
// @Description Get the aggregated crowd history for a camera
// @Tags crowd
// @Accept json
// @Produce json
// @Param id path string true "Camera ID"
// @Success 200 {object} models.CrowdStatistics
// @Failure 404 {object} map[string]interface{}
// @Router /cameras/{id}/statistics [get]
func (h *CrowdHandler) GetStatistics(c *gin.Context) {
	stats, ok := h.crowds.Statistics(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no analysis history for camera"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
