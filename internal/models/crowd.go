package models

import (
	"time"
)

// StabilityLevel categorizes how much the crowd size fluctuates over the
// recent history window
type StabilityLevel string

const (
	StabilityInsufficientData StabilityLevel = "insufficient_data"
	StabilityStable           StabilityLevel = "stable"
	StabilityModerate         StabilityLevel = "moderate"
	StabilityDynamic          StabilityLevel = "dynamic"
)

// RiskLevel represents the overall crowd risk classification
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
	// RiskCritical is reserved in the taxonomy; the current score table
	// never emits it. Its trigger condition is a pending product decision.
	RiskCritical RiskLevel = "critical"
)

// Detection is one detected-person bounding box from the vision front-end.
// BBox is [x, y, width, height] in frame coordinates.
type Detection struct {
	BBox  []float64 `json:"bbox"`
	Score float64   `json:"score"`
}

// Width returns the bbox width clamped to zero, so malformed detections
// cannot poison size-derived math
func (d Detection) Width() float64 {
	if len(d.BBox) < 3 || d.BBox[2] < 0 {
		return 0
	}
	return d.BBox[2]
}

// Height returns the bbox height clamped to zero
func (d Detection) Height() float64 {
	if len(d.BBox) < 4 || d.BBox[3] < 0 {
		return 0
	}
	return d.BBox[3]
}

// CrowdSnapshot is one timestamped history sample
type CrowdSnapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
	Density   float64   `json:"density"`
}

// RiskAssessment is the analyzer output for one frame of detections
type RiskAssessment struct {
	CameraID          string         `json:"camera_id,omitempty"`
	PersonCount       int            `json:"person_count"`
	Density           float64        `json:"density"`
	AvgDensity        float64        `json:"avg_density"`
	DensityAlert      bool           `json:"density_alert"`
	UnusualGathering  bool           `json:"unusual_gathering"`
	GatheringDuration float64        `json:"gathering_duration"` // seconds
	Stability         StabilityLevel `json:"crowd_stability"`
	RiskLevel         RiskLevel      `json:"risk_level"`
	Thresholds        ThresholdSet   `json:"thresholds"`
	Timestamp         time.Time      `json:"timestamp"`
}

// CrowdStatistics aggregates the current history window, for reporting only
type CrowdStatistics struct {
	MaxCount   int     `json:"max_count"`
	AvgCount   float64 `json:"avg_count"`
	MaxDensity float64 `json:"max_density"`
	AvgDensity float64 `json:"avg_density"`
	LastCount  int     `json:"last_count"`
	Samples    int     `json:"samples"`
}
