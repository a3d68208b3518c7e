package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"argus-worker-go/internal/logging"
	"argus-worker-go/internal/services/cameras"
)

type CameraHandler struct {
	cameras *cameras.Registry
}

func NewCameraHandler(cameraReg *cameras.Registry) *CameraHandler {
	return &CameraHandler{cameras: cameraReg}
}

type RegisterCameraRequest struct {
	CameraID string `json:"camera_id" binding:"required" example:"cam-entrance-1"`
	Country  string `json:"country" example:"Lebanon"`
}

type CameraListResponse struct {
	Cameras map[string]string `json:"cameras"` // camera_id -> country
	Count   int               `json:"count"`
}

// @Summary List cameras
// @Description List all registered cameras and their countries
// @Tags cameras
// @Accept json
// @Produce json
// @Success 200 {object} CameraListResponse
// @Router /cameras [get]
func (h *CameraHandler) ListCameras(c *gin.Context) {
	mapping := h.cameras.Cameras()
	c.JSON(http.StatusOK, CameraListResponse{Cameras: mapping, Count: len(mapping)})
}

// @Summary Register camera
// @Description Register a camera under a country. Re-registering with a different country is rejected.
// @Tags cameras
// @Accept json
// @Produce json
// @Param camera body RegisterCameraRequest true "Camera registration"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /cameras [post]
func (h *CameraHandler) RegisterCamera(c *gin.Context) {
	var req RegisterCameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.Warn(c).Err(err).Msg("Invalid camera registration")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.cameras.Register(req.CameraID, req.Country) {
		c.JSON(http.StatusConflict, gin.H{"error": "camera already registered under a different country"})
		return
	}

	country, _ := h.cameras.CountryOf(req.CameraID)
	c.JSON(http.StatusCreated, gin.H{"camera_id": req.CameraID, "country": country})
}
