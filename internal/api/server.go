package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"argus-worker-go/internal/api/handlers"
	"argus-worker-go/internal/config"
	"argus-worker-go/internal/services"
)

type Server struct {
	config *config.Config
	router *gin.Engine
	server *http.Server

	healthHandler    *handlers.HealthHandler
	thresholdHandler *handlers.ThresholdHandler
	eventHandler     *handlers.EventHandler
	cameraHandler    *handlers.CameraHandler
	crowdHandler     *handlers.CrowdHandler
	dispatchHandler  *handlers.DispatchHandler
	systemHandler    *handlers.SystemHandler
}

func NewServer(cfg *config.Config, container *services.ServiceContainer) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	return &Server{
		config:           cfg,
		router:           router,
		healthHandler:    handlers.NewHealthHandler(cfg),
		thresholdHandler: handlers.NewThresholdHandler(container.ThresholdSvc),
		eventHandler:     handlers.NewEventHandler(container.ThresholdSvc, container.EventReg),
		cameraHandler:    handlers.NewCameraHandler(container.CameraReg),
		crowdHandler:     handlers.NewCrowdHandler(container.ThresholdSvc, container.CrowdManager),
		dispatchHandler:  handlers.NewDispatchHandler(container.DispatchSvc),
		systemHandler:    handlers.NewSystemHandler(cfg.WorkerID),
	}
}

func (s *Server) Setup() error {
	s.setupMiddleware()

	s.setupRoutes()

	s.setupSwagger()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.router,
	}

	return nil
}

func (s *Server) Start() error {
	log.Info().Int("port", s.config.Port).Msg("Starting Argus Worker API")
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	log.Info().Msg("Stopping Argus Worker API")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) GetServer() *http.Server {
	return s.server
}
