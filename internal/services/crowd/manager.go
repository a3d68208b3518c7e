package crowd

import (
	"sync"

	"github.com/rs/zerolog"

	"argus-worker-go/internal/config"
	"argus-worker-go/internal/logging"
	"argus-worker-go/internal/models"
)

// Manager holds one Analyzer per camera so each feed keeps its own
// history and gathering episode
type Manager struct {
	cfg    *config.Config
	clock  models.Clock
	logger zerolog.Logger

	mu        sync.Mutex
	analyzers map[string]*Analyzer
}

// NewManager creates an empty analyzer manager
func NewManager(cfg *config.Config, clock models.Clock) *Manager {
	return &Manager{
		cfg:       cfg,
		clock:     clock,
		logger:    logging.NewServiceLogger(cfg, "crowd"),
		analyzers: make(map[string]*Analyzer),
	}
}

// Analyzer returns the analyzer for the camera, creating it on first use
func (m *Manager) Analyzer(cameraID string) *Analyzer {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.analyzers[cameraID]
	if !ok {
		a = NewAnalyzer(m.cfg, cameraID, m.clock)
		m.analyzers[cameraID] = a
		m.logger.Info().Str("camera_id", cameraID).Msg("Analyzer created")
	}
	return a
}

// Analyze routes one frame to the camera's analyzer
func (m *Manager) Analyze(cameraID string, detections []models.Detection, frameArea float64, thresholds models.ThresholdSet) models.RiskAssessment {
	return m.Analyzer(cameraID).Analyze(detections, frameArea, thresholds)
}

// Statistics returns the history summary for a camera, false if the
// camera has never been analyzed
func (m *Manager) Statistics(cameraID string) (models.CrowdStatistics, bool) {
	m.mu.Lock()
	a, ok := m.analyzers[cameraID]
	m.mu.Unlock()

	if !ok {
		return models.CrowdStatistics{}, false
	}
	return a.Statistics(), true
}

// Cameras lists the cameras with an active analyzer
func (m *Manager) Cameras() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.analyzers))
	for id := range m.analyzers {
		out = append(out, id)
	}
	return out
}
