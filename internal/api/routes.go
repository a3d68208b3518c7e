package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.WorkerInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)

	s.router.GET("/context", s.thresholdHandler.GetLocationContext)
	s.router.GET("/thresholds", s.thresholdHandler.GetGlobalThresholds)

	cameras := s.router.Group("/cameras")
	{
		cameras.GET("", s.cameraHandler.ListCameras)
		cameras.POST("", s.cameraHandler.RegisterCamera)
		cameras.GET("/:id/thresholds", s.thresholdHandler.GetCameraThresholds)
		cameras.POST("/:id/analyze", s.crowdHandler.Analyze)
		cameras.GET("/:id/statistics", s.crowdHandler.GetStatistics)
	}

	events := s.router.Group("/events")
	{
		events.GET("", s.eventHandler.ListEvents)
		events.POST("", s.eventHandler.AddEvent)
		events.DELETE("/:type", s.eventHandler.RemoveEvents)
		events.POST("/prayer/refresh", s.eventHandler.RefreshPrayerWindows)
	}

	responders := s.router.Group("/responders")
	{
		responders.GET("", s.dispatchHandler.ListResponders)
		responders.POST("", s.dispatchHandler.RegisterResponder)
		responders.DELETE("/:id", s.dispatchHandler.RemoveResponder)
		responders.POST("/:id/channel", s.dispatchHandler.RegisterChannel)
		responders.DELETE("/:id/channel", s.dispatchHandler.UnregisterChannel)
		responders.GET("/nearest", s.dispatchHandler.FindNearest)
	}

	s.router.POST("/incidents", s.dispatchHandler.DispatchIncident)

	system := s.router.Group("/system")
	{
		system.GET("/stats", s.systemHandler.GetStats)
		system.GET("/debug", s.systemHandler.GetDebugInfo)
	}
}
