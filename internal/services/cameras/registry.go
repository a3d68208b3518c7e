package cameras

import (
	"sync"

	"github.com/rs/zerolog"

	"argus-worker-go/internal/config"
	"argus-worker-go/internal/logging"
)

// Registry maintains the bidirectional camera-id <-> country mapping.
// Append-only: a camera id is never silently moved to another country;
// reassignment requires Replace with a full new mapping.
type Registry struct {
	mu             sync.RWMutex
	cameraCountry  map[string]string
	countryCameras map[string][]string
	logger         zerolog.Logger
}

// NewRegistry creates an empty camera registry
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{
		cameraCountry:  make(map[string]string),
		countryCameras: make(map[string][]string),
		logger:         logging.NewServiceLogger(cfg, "cameras"),
	}
}

// Register maps a camera to its country. Registering an already-known
// camera under a different country is rejected.
func (r *Registry) Register(cameraID, country string) bool {
	if cameraID == "" {
		return false
	}
	if country == "" {
		country = "Unknown"
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.cameraCountry[cameraID]; ok {
		if existing != country {
			r.logger.Warn().
				Str("camera_id", cameraID).
				Str("registered_country", existing).
				Str("requested_country", country).
				Msg("Camera already registered to another country, ignoring")
			return false
		}
		return true
	}

	r.cameraCountry[cameraID] = country
	r.countryCameras[country] = append(r.countryCameras[country], cameraID)

	r.logger.Info().
		Str("camera_id", cameraID).
		Str("country", country).
		Msg("Camera registered")
	return true
}

// RegisterAll registers a batch of cameras for one country
func (r *Registry) RegisterAll(country string, cameraIDs []string) int {
	registered := 0
	for _, id := range cameraIDs {
		if r.Register(id, country) {
			registered++
		}
	}
	return registered
}

// Replace swaps the whole mapping in one step. This is the only way a
// camera can change country.
func (r *Registry) Replace(mapping map[string]string) {
	cameraCountry := make(map[string]string, len(mapping))
	countryCameras := make(map[string][]string)
	for id, country := range mapping {
		if country == "" {
			country = "Unknown"
		}
		cameraCountry[id] = country
		countryCameras[country] = append(countryCameras[country], id)
	}

	r.mu.Lock()
	r.cameraCountry = cameraCountry
	r.countryCameras = countryCameras
	r.mu.Unlock()

	r.logger.Info().Int("cameras", len(mapping)).Msg("Camera registry replaced")
}

// CountryOf returns the country a camera belongs to
func (r *Registry) CountryOf(cameraID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	country, ok := r.cameraCountry[cameraID]
	return country, ok
}

// CamerasIn returns the camera ids registered for a country
func (r *Registry) CamerasIn(country string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.countryCameras[country]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Cameras returns all registered camera ids with their countries
func (r *Registry) Cameras() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.cameraCountry))
	for id, country := range r.cameraCountry {
		out[id] = country
	}
	return out
}

// Count returns the number of registered cameras
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cameraCountry)
}
