package thresholds

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"argus-worker-go/internal/config"
	"argus-worker-go/internal/logging"
	"argus-worker-go/internal/models"
	"argus-worker-go/internal/services/cameras"
	"argus-worker-go/internal/services/events"
)

// Population density breakpoints (people per km²), checked high to low
const (
	densityVeryHigh = 1000
	densityHigh     = 300
	densityMedium   = 100
	densityLow      = 50
)

// Cultural crowd tolerance factors
var culturalFactors = map[models.CulturalContext]float64{
	models.CulturalCollectivist:  1.5, // Higher tolerance for crowds
	models.CulturalIndividualist: 0.8, // Lower tolerance for crowds
	models.CulturalMixed:         1.0, // Neutral tolerance
}

// Service composes location context and active events into adjusted crowd
// thresholds. It owns the LocationContext; without one every multiplier
// defaults to 1.0 and the calculation never fails.
type Service struct {
	cfg     *config.Config
	events  *events.Registry
	cameras *cameras.Registry
	clock   models.Clock
	logger  zerolog.Logger

	mu       sync.RWMutex
	location *models.LocationContext
	base     models.ThresholdSet
}

// NewService creates a threshold composer over the given registries
func NewService(cfg *config.Config, eventRegistry *events.Registry, cameraRegistry *cameras.Registry, clock models.Clock) *Service {
	return &Service{
		cfg:     cfg,
		events:  eventRegistry,
		cameras: cameraRegistry,
		clock:   clock,
		logger:  logging.NewServiceLogger(cfg, "thresholds"),
		base: models.ThresholdSet{
			CrowdDensity:     cfg.BaseCrowdDensity,
			GatheringSize:    cfg.BaseGatheringSize,
			MaxNormalDensity: cfg.BaseMaxNormalDensity,
		},
	}
}

// SetLocationContext installs the resolved location context. Replacing it
// wholesale is the only reconfiguration path.
func (s *Service) SetLocationContext(ctx models.LocationContext) {
	s.mu.Lock()
	s.location = &ctx
	s.mu.Unlock()

	s.logger.Info().
		Str("country", ctx.Country).
		Str("city", ctx.City).
		Msg("Location context set")
}

// LocationContext returns the current context, if any
func (s *Service) LocationContext() (models.LocationContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.location == nil {
		return models.LocationContext{}, false
	}
	return *s.location, true
}

// BaseThresholds returns the configured base metrics
func (s *Service) BaseThresholds() models.ThresholdSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base
}

// GlobalThresholds calculates the adjusted thresholds for the whole site
// at the given instant
func (s *Service) GlobalThresholds(now time.Time) models.ThresholdReport {
	return s.compose(now, "", "")
}

// CameraThresholds calculates thresholds for one camera, restricting event
// matching to the camera's country and allowlist. Unknown cameras resolve
// to the "Unknown" country and still succeed.
func (s *Service) CameraThresholds(cameraID string, now time.Time) models.ThresholdReport {
	country, ok := s.cameras.CountryOf(cameraID)
	if !ok {
		country = "Unknown"
		s.logger.Warn().Str("camera_id", cameraID).Msg("Camera not registered, using Unknown country")
	}
	return s.compose(now, cameraID, country)
}

// compose runs the multiplier pipeline. cameraID and cameraCountry are
// empty for the global calculation.
func (s *Service) compose(now time.Time, cameraID, cameraCountry string) models.ThresholdReport {
	s.mu.RLock()
	location := s.location
	base := s.base
	s.mu.RUnlock()

	adjustments := make([]string, 0, 6)

	// 1. Prayer check, independent of the event registry
	var religions []string
	if location != nil {
		religions = location.ReligiousMajority
	}
	isPrayer, prayerInfo, prayerMultiplier := events.IsPrayerTime(now, religions)
	if isPrayer {
		adjustments = append(adjustments, fmt.Sprintf("Prayer time (%s): x%.1f", prayerInfo, prayerMultiplier))
	}

	// 2. Population density
	densityMultiplier := s.densityMultiplier(location)
	if cameraID != "" {
		adjustments = append(adjustments, fmt.Sprintf("Population density (%s): x%.1f", cameraCountry, densityMultiplier))
	} else {
		adjustments = append(adjustments, fmt.Sprintf("Population density: x%.1f", densityMultiplier))
	}

	// 3. Cultural context
	culturalMultiplier := s.culturalMultiplier(location)
	adjustments = append(adjustments, fmt.Sprintf("Cultural context: x%.1f", culturalMultiplier))

	// 4. Active events, filtered by country (and camera allowlist for the
	// per-camera variant)
	country := cameraCountry
	if country == "" {
		if location != nil {
			country = location.Country
		} else {
			country = "Unknown"
		}
	}
	eventMultiplier, activeEvents := s.events.MaxMultiplier(now, country, cameraID)
	if eventMultiplier != 1.0 {
		if cameraID != "" {
			adjustments = append(adjustments, fmt.Sprintf("Camera-specific events: x%.1f", eventMultiplier))
		} else {
			adjustments = append(adjustments, fmt.Sprintf("Active events: x%.1f", eventMultiplier))
		}
		adjustments = append(adjustments, activeEvents...)
	}

	// 5. Composition: prayer takes precedence over generic events
	var finalMultiplier float64
	if isPrayer {
		finalMultiplier = prayerMultiplier * densityMultiplier * culturalMultiplier
	} else {
		finalMultiplier = densityMultiplier * culturalMultiplier * eventMultiplier
	}

	report := models.ThresholdReport{
		CameraID:        cameraID,
		CameraCountry:   cameraCountry,
		Thresholds:      applyMultiplier(base, finalMultiplier),
		BaseThresholds:  base,
		FinalMultiplier: math.Round(finalMultiplier*100) / 100,
		Adjustments:     adjustments,
		IsPrayerTime:    isPrayer,
		ActiveEvents:    activeEvents,
		Timestamp:       now,
	}
	if isPrayer {
		report.PrayerInfo = prayerInfo
	}

	s.logger.Debug().
		Str("camera_id", cameraID).
		Float64("final_multiplier", report.FinalMultiplier).
		Bool("is_prayer_time", isPrayer).
		Msg("Thresholds composed")

	return report
}

// applyMultiplier floors each adjusted metric, truncating toward zero
func applyMultiplier(base models.ThresholdSet, multiplier float64) models.ThresholdSet {
	return models.ThresholdSet{
		CrowdDensity:     flooredMetric(base.CrowdDensity, multiplier),
		GatheringSize:    flooredMetric(base.GatheringSize, multiplier),
		MaxNormalDensity: flooredMetric(base.MaxNormalDensity, multiplier),
	}
}

func flooredMetric(base, multiplier float64) float64 {
	adjusted := math.Floor(base * multiplier)
	if adjusted < 0 {
		return 0
	}
	return adjusted
}

// densityMultiplier steps the multiplier by population density against the
// fixed breakpoints, highest first
func (s *Service) densityMultiplier(location *models.LocationContext) float64 {
	if location == nil {
		return 1.0
	}

	density := location.PopulationDensity
	switch {
	case density > densityVeryHigh:
		return 2.0 // Much higher tolerance in very dense areas
	case density > densityHigh:
		return 1.5
	case density > densityMedium:
		return 1.0
	case density > densityLow:
		return 0.8
	default:
		return 0.6 // Much lower tolerance in very sparse areas
	}
}

func (s *Service) culturalMultiplier(location *models.LocationContext) float64 {
	if location == nil {
		return 1.0
	}
	if factor, ok := culturalFactors[location.CulturalContext]; ok {
		return factor
	}
	return 1.0
}

// AddCustomEvent registers an ad-hoc event window starting now. When no
// target countries are given, the current location's country is used, and
// the affected cameras are resolved from the camera registry.
func (s *Service) AddCustomEvent(eventType, description string, duration time.Duration, multiplier float64, targetCountries []string) models.EventSummary {
	now := s.clock.Now()

	if multiplier <= 0 {
		if preset, ok := events.EventMultipliers[eventType]; ok {
			multiplier = preset
		} else {
			multiplier = 1.0
		}
	}

	if len(targetCountries) == 0 {
		if location, ok := s.LocationContext(); ok {
			targetCountries = []string{location.Country}
		} else {
			targetCountries = []string{"Unknown"}
		}
	}

	var affectedCameras []string
	for _, country := range targetCountries {
		affectedCameras = append(affectedCameras, s.cameras.CamerasIn(country)...)
	}

	event := models.EventWindow{
		EventType:       eventType,
		StartTime:       now,
		EndTime:         now.Add(duration),
		CrowdMultiplier: multiplier,
		Description:     description,
		TargetCountries: targetCountries,
		AffectedCameras: affectedCameras,
		IsActive:        true,
	}
	s.events.Add(event)

	s.logger.Info().
		Str("event_type", eventType).
		Str("description", description).
		Strs("target_countries", targetCountries).
		Int("affected_cameras", len(affectedCameras)).
		Msg("Custom event added")

	return models.EventSummary{
		Message:           fmt.Sprintf("Event '%s' added successfully", description),
		EventType:         eventType,
		AffectedCountries: targetCountries,
		AffectedCameras:   affectedCameras,
		StartTime:         event.StartTime,
		EndTime:           event.EndTime,
		CrowdMultiplier:   multiplier,
	}
}

// RefreshPrayerWindows regenerates today's prayer windows from the current
// location's religious majority. Safe to call repeatedly.
func (s *Service) RefreshPrayerWindows(now time.Time) int {
	location, ok := s.LocationContext()
	if !ok {
		s.logger.Debug().Msg("No location context, skipping prayer window refresh")
		return 0
	}
	return s.events.RefreshPrayerWindows(now, location.ReligiousMajority, location.Country)
}
