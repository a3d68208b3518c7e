package thresholds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus-worker-go/internal/config"
	"argus-worker-go/internal/models"
	"argus-worker-go/internal/services/cameras"
	"argus-worker-go/internal/services/events"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func testConfig() *config.Config {
	return &config.Config{
		WorkerID:             "test-worker",
		BaseCrowdDensity:     5,
		BaseGatheringSize:    8,
		BaseMaxNormalDensity: 10,
	}
}

func newTestService(now time.Time) (*Service, *events.Registry, *cameras.Registry) {
	cfg := testConfig()
	eventReg := events.NewRegistry(cfg)
	cameraReg := cameras.NewRegistry(cfg)
	svc := NewService(cfg, eventReg, cameraReg, &fakeClock{now: now})
	return svc, eventReg, cameraReg
}

// 14:00 is outside every prayer window of every schedule
var quietHour = time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC)

func TestGlobalThresholdsDensityOnly(t *testing.T) {
	svc, _, _ := newTestService(quietHour)
	svc.SetLocationContext(models.LocationContext{
		Country:           "Testland",
		PopulationDensity: 400, // high tier -> x1.5
		CulturalContext:   models.CulturalMixed,
		ReligiousMajority: []string{"christianity"},
	})

	report := svc.GlobalThresholds(quietHour)

	assert.Equal(t, 1.5, report.FinalMultiplier)
	assert.Equal(t, models.ThresholdSet{CrowdDensity: 7, GatheringSize: 12, MaxNormalDensity: 15}, report.Thresholds)
	assert.Equal(t, models.ThresholdSet{CrowdDensity: 5, GatheringSize: 8, MaxNormalDensity: 10}, report.BaseThresholds)
	assert.False(t, report.IsPrayerTime)
	assert.Contains(t, report.Adjustments, "Population density: x1.5")
	assert.Contains(t, report.Adjustments, "Cultural context: x1.0")
}

func TestPrayerTimeIgnoresGenericEventMultiplier(t *testing.T) {
	// 12:30 is inside islam dhuhr
	prayerHour := time.Date(2026, 8, 25, 12, 30, 0, 0, time.UTC)
	svc, eventReg, _ := newTestService(prayerHour)
	svc.SetLocationContext(models.LocationContext{
		Country:           "Testland",
		PopulationDensity: 150, // medium tier -> x1.0
		CulturalContext:   models.CulturalMixed,
		ReligiousMajority: []string{"islam"},
	})

	// A bigger generic event must not leak into the prayer composition
	eventReg.Add(models.EventWindow{
		EventType:       "religious_festival",
		StartTime:       prayerHour.Add(-time.Hour),
		EndTime:         prayerHour.Add(time.Hour),
		CrowdMultiplier: 5.0,
		Description:     "big festival",
		TargetCountries: []string{"Testland"},
	})

	report := svc.GlobalThresholds(prayerHour)

	require.True(t, report.IsPrayerTime)
	assert.Equal(t, "islam_dhuhr", report.PrayerInfo)
	// final = prayer(2.0) * density(1.0) * cultural(1.0), event ignored
	assert.Equal(t, 2.0, report.FinalMultiplier)
	assert.Equal(t, models.ThresholdSet{CrowdDensity: 10, GatheringSize: 16, MaxNormalDensity: 20}, report.Thresholds)
}

func TestOverlappingEventsResolveToMaximum(t *testing.T) {
	svc, eventReg, _ := newTestService(quietHour)
	svc.SetLocationContext(models.LocationContext{
		Country:           "Testland",
		PopulationDensity: 150,
		CulturalContext:   models.CulturalMixed,
		ReligiousMajority: []string{"christianity"},
	})

	for _, m := range []float64{2.0, 3.0} {
		eventReg.Add(models.EventWindow{
			EventType:       "festival",
			StartTime:       quietHour.Add(-time.Hour),
			EndTime:         quietHour.Add(time.Hour),
			CrowdMultiplier: m,
			Description:     "festival",
			TargetCountries: []string{"Testland"},
		})
	}

	report := svc.GlobalThresholds(quietHour)

	// max, not sum (5.0) or product (6.0)
	assert.Equal(t, 3.0, report.FinalMultiplier)
	assert.Len(t, report.ActiveEvents, 2)
}

func TestNoLocationContextDefaultsToUnity(t *testing.T) {
	svc, _, _ := newTestService(quietHour)

	report := svc.GlobalThresholds(quietHour)

	assert.Equal(t, 1.0, report.FinalMultiplier)
	assert.False(t, report.IsPrayerTime)
	assert.Equal(t, report.BaseThresholds, report.Thresholds)
}

func TestFlooringTruncatesTowardZero(t *testing.T) {
	svc, _, _ := newTestService(quietHour)
	svc.SetLocationContext(models.LocationContext{
		Country:           "Sparseland",
		PopulationDensity: 40, // very low tier -> x0.6
		CulturalContext:   models.CulturalIndividualist,
		ReligiousMajority: []string{"christianity"},
	})

	report := svc.GlobalThresholds(quietHour)

	// 0.6 * 0.8 = 0.48
	assert.Equal(t, 0.48, report.FinalMultiplier)
	// floor(5*0.48)=2, floor(8*0.48)=3, floor(10*0.48)=4
	assert.Equal(t, models.ThresholdSet{CrowdDensity: 2, GatheringSize: 3, MaxNormalDensity: 4}, report.Thresholds)
	assert.GreaterOrEqual(t, report.Thresholds.CrowdDensity, 0.0)
}

func TestDensityBreakpointsHighToLow(t *testing.T) {
	tests := []struct {
		density float64
		want    float64
	}{
		{1500, 2.0},
		{1000, 1.5}, // not strictly above very_high
		{400, 1.5},
		{300, 1.0},
		{150, 1.0},
		{100, 0.8},
		{60, 0.8},
		{50, 0.6},
		{10, 0.6},
	}

	for _, tt := range tests {
		svc, _, _ := newTestService(quietHour)
		svc.SetLocationContext(models.LocationContext{
			Country:           "Testland",
			PopulationDensity: tt.density,
			CulturalContext:   models.CulturalMixed,
			ReligiousMajority: []string{"christianity"},
		})
		report := svc.GlobalThresholds(quietHour)
		assert.Equal(t, tt.want, report.FinalMultiplier, "density %v", tt.density)
	}
}

func TestCameraThresholdsUseCameraCountryEvents(t *testing.T) {
	svc, eventReg, cameraReg := newTestService(quietHour)
	svc.SetLocationContext(models.LocationContext{
		Country:           "Lebanon",
		PopulationDensity: 150,
		CulturalContext:   models.CulturalMixed,
		ReligiousMajority: []string{"christianity"},
	})
	cameraReg.Register("cam-usa", "USA")

	eventReg.Add(models.EventWindow{
		EventType:       "graduation",
		StartTime:       quietHour.Add(-time.Hour),
		EndTime:         quietHour.Add(time.Hour),
		CrowdMultiplier: 2.5,
		Description:     "ceremony",
		TargetCountries: []string{"USA"},
	})

	// The USA event applies to the USA camera but not globally (site is Lebanon)
	global := svc.GlobalThresholds(quietHour)
	assert.Equal(t, 1.0, global.FinalMultiplier)

	camera := svc.CameraThresholds("cam-usa", quietHour)
	assert.Equal(t, 2.5, camera.FinalMultiplier)
	assert.Equal(t, "cam-usa", camera.CameraID)
	assert.Equal(t, "USA", camera.CameraCountry)
	assert.Contains(t, camera.Adjustments, "Camera-specific events: x2.5")
}

func TestCameraThresholdsViaAllowlist(t *testing.T) {
	svc, eventReg, cameraReg := newTestService(quietHour)
	svc.SetLocationContext(models.LocationContext{
		Country:           "Lebanon",
		PopulationDensity: 150,
		CulturalContext:   models.CulturalMixed,
		ReligiousMajority: []string{"christianity"},
	})
	cameraReg.Register("cam-1", "Lebanon")
	cameraReg.Register("cam-2", "Lebanon")

	eventReg.Add(models.EventWindow{
		EventType:       "maintenance",
		StartTime:       quietHour.Add(-time.Hour),
		EndTime:         quietHour.Add(time.Hour),
		CrowdMultiplier: 2.0,
		Description:     "entrance works",
		TargetCountries: []string{"Elsewhere"},
		AffectedCameras: []string{"cam-1"},
	})

	assert.Equal(t, 2.0, svc.CameraThresholds("cam-1", quietHour).FinalMultiplier)
	assert.Equal(t, 1.0, svc.CameraThresholds("cam-2", quietHour).FinalMultiplier)
}

func TestCameraThresholdsUnknownCamera(t *testing.T) {
	svc, _, _ := newTestService(quietHour)

	report := svc.CameraThresholds("ghost", quietHour)

	assert.Equal(t, "Unknown", report.CameraCountry)
	assert.Equal(t, 1.0, report.FinalMultiplier)
}

func TestAddCustomEventDefaults(t *testing.T) {
	clock := &fakeClock{now: quietHour}
	cfg := testConfig()
	eventReg := events.NewRegistry(cfg)
	cameraReg := cameras.NewRegistry(cfg)
	svc := NewService(cfg, eventReg, cameraReg, clock)

	svc.SetLocationContext(models.LocationContext{
		Country:           "Lebanon",
		PopulationDensity: 150,
		CulturalContext:   models.CulturalMixed,
		ReligiousMajority: []string{"islam"},
	})
	cameraReg.RegisterAll("Lebanon", []string{"cam-1", "cam-2"})

	summary := svc.AddCustomEvent("emergency", "gas leak", 2*time.Hour, 0, nil)

	// Preset multiplier and location-country default
	assert.Equal(t, 0.3, summary.CrowdMultiplier)
	assert.Equal(t, []string{"Lebanon"}, summary.AffectedCountries)
	assert.ElementsMatch(t, []string{"cam-1", "cam-2"}, summary.AffectedCameras)
	assert.Equal(t, quietHour, summary.StartTime)
	assert.Equal(t, quietHour.Add(2*time.Hour), summary.EndTime)

	// The event is live immediately
	report := svc.GlobalThresholds(quietHour.Add(time.Minute))
	assert.Equal(t, 0.3, report.FinalMultiplier)
}

func TestAddCustomEventWithoutContextTargetsUnknown(t *testing.T) {
	svc, _, _ := newTestService(quietHour)

	summary := svc.AddCustomEvent("festival", "pop-up market", time.Hour, 1.8, nil)

	assert.Equal(t, []string{"Unknown"}, summary.AffectedCountries)
	assert.Equal(t, 1.8, summary.CrowdMultiplier)
}

func TestFinalMultiplierRoundedToTwoDecimals(t *testing.T) {
	svc, _, _ := newTestService(quietHour)
	svc.SetLocationContext(models.LocationContext{
		Country:           "Testland",
		PopulationDensity: 400, // x1.5
		CulturalContext:   models.CulturalIndividualist,
		ReligiousMajority: []string{"christianity"},
	})

	report := svc.GlobalThresholds(quietHour)

	// 1.5 * 0.8 must come out as exactly 1.2
	assert.Equal(t, 1.2, report.FinalMultiplier)
}

func TestRefreshPrayerWindowsRequiresContext(t *testing.T) {
	svc, _, _ := newTestService(quietHour)
	assert.Equal(t, 0, svc.RefreshPrayerWindows(quietHour))

	svc.SetLocationContext(models.LocationContext{
		Country:           "Lebanon",
		PopulationDensity: 150,
		CulturalContext:   models.CulturalMixed,
		ReligiousMajority: []string{"islam"},
	})
	morning := time.Date(2026, 8, 25, 4, 0, 0, 0, time.UTC)
	assert.Equal(t, 5, svc.RefreshPrayerWindows(morning))
}
