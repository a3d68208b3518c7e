package models

import (
	"time"
)

// CulturalContext represents the crowd-tolerance category of a country
type CulturalContext string

const (
	CulturalCollectivist  CulturalContext = "collectivist"
	CulturalIndividualist CulturalContext = "individualist"
	CulturalMixed         CulturalContext = "mixed"
)

// LocationContext holds the location-derived inputs for threshold adjustment.
// Built once per configuration load and treated as immutable afterwards.
type LocationContext struct {
	Country           string          `json:"country"`
	City              string          `json:"city"`
	Timezone          string          `json:"timezone"`
	PopulationDensity float64         `json:"population_density"` // people per km²
	CulturalContext   CulturalContext `json:"cultural_context"`
	ReligiousMajority []string        `json:"religious_majority"` // ordered, e.g. ["islam", "christianity"]
	Latitude          float64         `json:"latitude"`
	Longitude         float64         `json:"longitude"`
}

// EventWindow is a time-bounded threshold adjustment affecting one or more
// countries and, optionally, an explicit camera allowlist.
type EventWindow struct {
	EventType       string    `json:"event_type"` // prayer_time, religious_festival, emergency, ...
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	CrowdMultiplier float64   `json:"crowd_multiplier"` // > 0
	Description     string    `json:"description"`
	TargetCountries []string  `json:"target_countries"`
	AffectedCameras []string  `json:"affected_cameras,omitempty"`
	IsActive        bool      `json:"is_active"`
}

// EventSummary is returned when a custom event is registered
type EventSummary struct {
	Message           string    `json:"message"`
	EventType         string    `json:"event_type"`
	AffectedCountries []string  `json:"affected_countries"`
	AffectedCameras   []string  `json:"affected_cameras"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	CrowdMultiplier   float64   `json:"crowd_multiplier"`
}

// ThresholdSet holds the three crowd metrics every threshold decision is
// made against. Adjusted sets are always derived from a base set, never
// stored.
type ThresholdSet struct {
	CrowdDensity     float64 `json:"crowd_density"`
	GatheringSize    float64 `json:"gathering_size"`
	MaxNormalDensity float64 `json:"max_normal_density"`
}

// ThresholdReport is the full result of a threshold calculation, including
// the reasoning trail for audit and dashboards.
type ThresholdReport struct {
	CameraID        string       `json:"camera_id,omitempty"`
	CameraCountry   string       `json:"camera_country,omitempty"`
	Thresholds      ThresholdSet `json:"thresholds"`
	BaseThresholds  ThresholdSet `json:"base_thresholds"`
	FinalMultiplier float64      `json:"final_multiplier"` // rounded to 2 decimals
	Adjustments     []string     `json:"adjustments"`
	IsPrayerTime    bool         `json:"is_prayer_time"`
	PrayerInfo      string       `json:"prayer_info,omitempty"` // e.g. "islam_dhuhr"
	ActiveEvents    []string     `json:"active_events"`
	Timestamp       time.Time    `json:"timestamp"`
}

// Clock abstracts wall-clock access so every time-dependent rule can be
// tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
