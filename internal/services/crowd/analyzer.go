package crowd

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"argus-worker-go/internal/config"
	"argus-worker-go/internal/logging"
	"argus-worker-go/internal/models"
)

// Risk score contributions
const (
	countHigh   = 20
	countMedium = 15
	countLow    = 10

	unusualGatheringScore = 2

	riskScoreHigh   = 6
	riskScoreMedium = 3
)

// Variance boundaries for crowd stability, over the recent count samples
const (
	varianceStable   = 2.0
	varianceModerate = 10.0
)

// Analyzer tracks one camera feed: a sliding history of crowd snapshots,
// the current gathering episode, and derived stability and risk. All state
// behind the mutex; one Analyze call per frame.
type Analyzer struct {
	cameraID string
	cfg      *config.Config
	clock    models.Clock
	logger   zerolog.Logger

	mu             sync.Mutex
	history        []models.CrowdSnapshot
	gatheringStart *time.Time
}

// NewAnalyzer creates an analyzer for a single camera feed
func NewAnalyzer(cfg *config.Config, cameraID string, clock models.Clock) *Analyzer {
	return &Analyzer{
		cameraID: cameraID,
		cfg:      cfg,
		clock:    clock,
		logger:   logging.WithCamera(logging.NewServiceLogger(cfg, "crowd"), cameraID),
	}
}

// Analyze ingests one frame of detections and returns the risk assessment
// against the supplied thresholds. Detections are trusted as person counts;
// malformed bounding boxes still count, they just carry no geometry.
func (a *Analyzer) Analyze(detections []models.Detection, frameArea float64, thresholds models.ThresholdSet) models.RiskAssessment {
	now := a.clock.Now()
	count := len(detections)

	var density float64
	if frameArea > 0 {
		density = float64(count) / (frameArea / a.cfg.FrameAreaDivisor)
	} else if count > 0 {
		a.logger.Warn().Float64("frame_area", frameArea).Msg("Non-positive frame area, density forced to zero")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, models.CrowdSnapshot{
		Timestamp: now,
		Count:     count,
		Density:   density,
	})
	a.evictLocked(now)

	avgDensity := a.avgDensityLocked()

	// Gathering episode: starts when the count reaches the gathering
	// threshold and resets the moment it drops below
	var gatheringDuration float64
	unusual := false
	if float64(count) >= thresholds.GatheringSize {
		if a.gatheringStart == nil {
			start := now
			a.gatheringStart = &start
			a.logger.Debug().Int("count", count).Msg("Gathering started")
		}
		gatheringDuration = now.Sub(*a.gatheringStart).Seconds()
		unusual = gatheringDuration > a.cfg.GatheringDuration.Seconds()
	} else {
		a.gatheringStart = nil
	}

	densityAlert := density > thresholds.MaxNormalDensity
	stability := a.stabilityLocked()
	risk := riskLevelForScore(riskScore(count, density, thresholds, unusual))

	assessment := models.RiskAssessment{
		CameraID:          a.cameraID,
		PersonCount:       count,
		Density:           density,
		AvgDensity:        avgDensity,
		DensityAlert:      densityAlert,
		UnusualGathering:  unusual,
		GatheringDuration: gatheringDuration,
		Stability:         stability,
		RiskLevel:         risk,
		Thresholds:        thresholds,
		Timestamp:         now,
	}

	if densityAlert || unusual || risk == models.RiskHigh {
		a.logger.Warn().
			Int("person_count", count).
			Float64("density", density).
			Bool("density_alert", densityAlert).
			Bool("unusual_gathering", unusual).
			Str("risk_level", string(risk)).
			Msg("Elevated crowd risk")
	} else {
		a.logger.Debug().
			Int("person_count", count).
			Float64("density", density).
			Str("risk_level", string(risk)).
			Msg("Frame analyzed")
	}

	return assessment
}

// Statistics summarizes the current history window
func (a *Analyzer) Statistics() models.CrowdStatistics {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := models.CrowdStatistics{Samples: len(a.history)}
	if len(a.history) == 0 {
		return stats
	}

	var countSum, densitySum float64
	for _, s := range a.history {
		if s.Count > stats.MaxCount {
			stats.MaxCount = s.Count
		}
		if s.Density > stats.MaxDensity {
			stats.MaxDensity = s.Density
		}
		countSum += float64(s.Count)
		densitySum += s.Density
	}
	stats.AvgCount = countSum / float64(len(a.history))
	stats.AvgDensity = densitySum / float64(len(a.history))
	stats.LastCount = a.history[len(a.history)-1].Count
	return stats
}

func (a *Analyzer) evictLocked(now time.Time) {
	cutoff := now.Add(-a.cfg.HistoryWindow)
	idx := 0
	for idx < len(a.history) && a.history[idx].Timestamp.Before(cutoff) {
		idx++
	}
	if idx > 0 {
		a.history = append(a.history[:0], a.history[idx:]...)
	}
}

func (a *Analyzer) avgDensityLocked() float64 {
	if len(a.history) == 0 {
		return 0
	}
	var sum float64
	for _, s := range a.history {
		sum += s.Density
	}
	return sum / float64(len(a.history))
}

// stabilityLocked classifies fluctuation from the variance of the most
// recent count samples
func (a *Analyzer) stabilityLocked() models.StabilityLevel {
	n := a.cfg.StabilitySamples
	if len(a.history) < n {
		return models.StabilityInsufficientData
	}

	recent := a.history[len(a.history)-n:]
	var sum float64
	for _, s := range recent {
		sum += float64(s.Count)
	}
	mean := sum / float64(n)

	var variance float64
	for _, s := range recent {
		d := float64(s.Count) - mean
		variance += d * d
	}
	variance /= float64(n)

	switch {
	case variance < varianceStable:
		return models.StabilityStable
	case variance < varianceModerate:
		return models.StabilityModerate
	default:
		return models.StabilityDynamic
	}
}

func riskScore(count int, density float64, thresholds models.ThresholdSet, unusual bool) int {
	score := 0

	maxDensity := thresholds.MaxNormalDensity
	switch {
	case density > maxDensity:
		score += 3
	case density > 0.7*maxDensity:
		score += 2
	case density > 0.5*maxDensity:
		score += 1
	}

	switch {
	case count > countHigh:
		score += 3
	case count > countMedium:
		score += 2
	case count > countLow:
		score += 1
	}

	if unusual {
		score += unusualGatheringScore
	}
	return score
}

// riskLevelForScore maps the combined score to a risk tier. RiskCritical
// stays reserved; no score reaches it.
func riskLevelForScore(score int) models.RiskLevel {
	switch {
	case score >= riskScoreHigh:
		return models.RiskHigh
	case score >= riskScoreMedium:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
