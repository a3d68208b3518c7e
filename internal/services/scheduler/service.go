package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"argus-worker-go/internal/config"
	"argus-worker-go/internal/logging"
	"argus-worker-go/internal/services/thresholds"
)

// Service runs the daily prayer window reconciliation on a cron schedule.
// The job also runs once at startup so a worker restarted mid-day still
// has today's windows.
type Service struct {
	cfg        *config.Config
	thresholds *thresholds.Service
	cron       *cron.Cron
	logger     zerolog.Logger
}

func NewService(cfg *config.Config, thresholdSvc *thresholds.Service) *Service {
	return &Service{
		cfg:        cfg,
		thresholds: thresholdSvc,
		cron:       cron.New(),
		logger:     logging.NewServiceLogger(cfg, "scheduler"),
	}
}

// Start registers the refresh job and kicks off an immediate run
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.PrayerRefreshCron, s.refresh); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info().Str("cron", s.cfg.PrayerRefreshCron).Msg("Prayer refresh scheduled")

	s.refresh()
	return nil
}

func (s *Service) refresh() {
	scheduled := s.thresholds.RefreshPrayerWindows(time.Now())
	s.logger.Info().Int("scheduled", scheduled).Msg("Prayer windows refreshed")
}

// Shutdown stops the cron loop, waiting for a running job up to the
// context deadline
func (s *Service) Shutdown(ctx context.Context) error {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
