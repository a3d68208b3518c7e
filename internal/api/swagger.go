package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (s *Server) setupSwagger() {
	s.router.GET("/api/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"title":       "Argus Worker API",
			"version":     s.config.Version,
			"description": "Crowd safety worker API for context-aware thresholds, crowd risk analysis, and responder dispatch",
			"swagger_ui":  "/docs/index.html",
			"endpoints": gin.H{
				"health":     "/health",
				"context":    "/context",
				"thresholds": "/thresholds",
				"cameras":    "/cameras",
				"events":     "/events",
				"responders": "/responders",
				"incidents":  "/incidents",
				"system":     "/system",
			},
			"worker_id": s.config.WorkerID,
			"port":      s.config.Port,
		})
	})

	s.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
}

var SwaggerInfo = struct {
	Version     string
	Host        string
	BasePath    string
	Schemes     []string
	Title       string
	Description string
}{
	Version:     "1.0.0",
	Host:        "localhost:8000",
	BasePath:    "/",
	Schemes:     []string{"http", "https"},
	Title:       "Argus Worker API",
	Description: "A crowd safety worker that derives context-aware thresholds, analyzes crowd risk from detections, and dispatches the nearest responder",
}
