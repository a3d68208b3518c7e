package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"argus-worker-go/internal/config"
	"argus-worker-go/internal/models"
	"argus-worker-go/internal/services/cameras"
	"argus-worker-go/internal/services/crowd"
	"argus-worker-go/internal/services/dispatch"
	"argus-worker-go/internal/services/events"
	"argus-worker-go/internal/services/location"
	"argus-worker-go/internal/services/messaging"
	"argus-worker-go/internal/services/scheduler"
	"argus-worker-go/internal/services/thresholds"
)

// ServiceContainer holds all services
type ServiceContainer struct {
	Config       *config.Config
	LocationSvc  *location.Service
	CameraReg    *cameras.Registry
	EventReg     *events.Registry
	ThresholdSvc *thresholds.Service
	CrowdManager *crowd.Manager
	MessagingSvc *messaging.Service
	DispatchSvc  *dispatch.Service
	SchedulerSvc *scheduler.Service
}

// NewServiceContainer creates a new service container. NATS is optional:
// when the bus is unreachable the worker still starts, alerts are just
// dropped until a reconnect.
func NewServiceContainer(cfg *config.Config) (*ServiceContainer, error) {
	clock := models.SystemClock{}

	locationSvc := location.NewService(cfg)
	cameraReg := cameras.NewRegistry(cfg)
	eventReg := events.NewRegistry(cfg)

	thresholdSvc := thresholds.NewService(cfg, eventReg, cameraReg, clock)
	thresholdSvc.SetLocationContext(locationSvc.Resolve(cfg.Country, cfg.City, cfg.CenterLat, cfg.CenterLng))
	cameraReg.RegisterAll(cfg.Country, cfg.CameraIDs)

	crowdManager := crowd.NewManager(cfg, clock)

	messagingSvc, err := messaging.NewService(cfg)
	var publisher models.MessagePublisher
	if err != nil {
		log.Warn().Err(err).Msg("NATS unavailable, alerts will be dropped")
	} else {
		publisher = messagingSvc
	}

	dispatchSvc := dispatch.NewService(cfg, publisher, clock)

	schedulerSvc := scheduler.NewService(cfg, thresholdSvc)
	if err := schedulerSvc.Start(); err != nil {
		return nil, err
	}

	return &ServiceContainer{
		Config:       cfg,
		LocationSvc:  locationSvc,
		CameraReg:    cameraReg,
		EventReg:     eventReg,
		ThresholdSvc: thresholdSvc,
		CrowdManager: crowdManager,
		MessagingSvc: messagingSvc,
		DispatchSvc:  dispatchSvc,
		SchedulerSvc: schedulerSvc,
	}, nil
}

// Shutdown gracefully shuts down all services
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	if sc.SchedulerSvc != nil {
		if err := sc.SchedulerSvc.Shutdown(ctx); err != nil {
			return err
		}
	}

	if sc.MessagingSvc != nil {
		if err := sc.MessagingSvc.Shutdown(ctx); err != nil {
			return err
		}
	}

	return nil
}
