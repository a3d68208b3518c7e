package models

import (
	"time"
)

// AlertType represents the kinds of messages published for responders
type AlertType string

const (
	AlertTypePriority AlertType = "PRIORITY_ALERT"
	AlertTypeIncident AlertType = "NEW_INCIDENT"
)

// IncidentSeverity mirrors the severity vocabulary used across the system
type IncidentSeverity string

const (
	IncidentSeverityLow      IncidentSeverity = "low"
	IncidentSeverityMedium   IncidentSeverity = "medium"
	IncidentSeverityHigh     IncidentSeverity = "high"
	IncidentSeverityCritical IncidentSeverity = "critical"
)

// GeoPoint is a WGS84 coordinate pair
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ResponderPost is a fixed-location security booth able to receive alerts.
// Read-only input to the dispatcher.
type ResponderPost struct {
	ID       string   `json:"post_id"`
	Name     string   `json:"name"`
	Location GeoPoint `json:"location"`
	Active   bool     `json:"active"`
}

// Incident is the event being dispatched to the nearest responder
type Incident struct {
	IncidentID   string           `json:"incident_id"`
	CameraID     string           `json:"camera_id"`
	IncidentType string           `json:"incident_type"`
	Severity     IncidentSeverity `json:"severity"`
	Location     GeoPoint         `json:"location"`
	Description  string           `json:"description"`
	Timestamp    time.Time        `json:"timestamp"`
}

// ResponderMatch is the dispatcher's selection result
type ResponderMatch struct {
	Post           ResponderPost `json:"post"`
	DistanceMeters float64       `json:"distance_meters"` // rounded to 2 decimals
}

// AlertMessage is the payload sent to the chosen responder. Ephemeral, not
// persisted by this core.
type AlertMessage struct {
	Type           AlertType     `json:"type"`
	Incident       Incident      `json:"incident"`
	Responder      ResponderPost `json:"responder"`
	DistanceMeters float64       `json:"distance_meters"`
	Timestamp      time.Time     `json:"timestamp"`
}

// MessagePublisher interface for publishing alerts
type MessagePublisher interface {
	Publish(subject string, data interface{}) error
	IsConnected() bool
}
