package events

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"argus-worker-go/internal/config"
	"argus-worker-go/internal/logging"
	"argus-worker-go/internal/models"
)

const (
	// PrayerEventType marks registry windows generated from the daily
	// prayer schedules
	PrayerEventType = "prayer_time"
	// PrayerMultiplier is the flat crowd-tolerance multiplier applied
	// during any prayer window
	PrayerMultiplier = 2.0
)

// Multiplier presets by event type. Used as defaults for custom events
// when the caller does not provide one. Approximate times and factors;
// a production deployment would tune these per site.
var EventMultipliers = map[string]float64{
	"prayer_time":        2.0,
	"religious_festival": 3.0,
	"academic_break":     0.7,
	"political_tension":  0.5,
	"emergency":          0.3,
	"graduation":         2.5,
	"cultural_festival":  2.2,
}

type prayerWindow struct {
	name      string
	startHour int
	startMin  int
	endHour   int
	endMin    int
}

// Daily time-of-day prayer windows per religion. Approximate clock times;
// a real deployment would integrate a prayer-time API.
var prayerSchedules = map[string][]prayerWindow{
	"islam": {
		{"fajr", 5, 30, 6, 0},      // Dawn prayer
		{"dhuhr", 12, 0, 13, 30},   // Noon prayer
		{"asr", 15, 30, 16, 30},    // Afternoon prayer
		{"maghrib", 18, 0, 19, 0},  // Sunset prayer
		{"isha", 20, 0, 21, 0},     // Night prayer
	},
	"christianity": {
		{"morning_service", 9, 0, 11, 0},
		{"evening_service", 18, 0, 20, 0},
	},
	"hinduism": {
		{"morning_puja", 6, 0, 8, 0},
		{"evening_aarti", 18, 30, 20, 0},
	},
	"buddhism": {
		{"morning_meditation", 6, 0, 7, 30},
		{"evening_chanting", 18, 0, 19, 30},
	},
}

// IsPrayerTime checks the daily schedules for the given religions directly
// against the time of day, independent of any registered event windows.
// Returns the matched window label ("islam_dhuhr") and the flat prayer
// multiplier.
func IsPrayerTime(t time.Time, religions []string) (bool, string, float64) {
	current := t.Hour()*60 + t.Minute()

	for _, religion := range religions {
		windows, ok := prayerSchedules[strings.ToLower(religion)]
		if !ok {
			continue
		}
		for _, w := range windows {
			start := w.startHour*60 + w.startMin
			end := w.endHour*60 + w.endMin
			if start <= current && current <= end {
				return true, fmt.Sprintf("%s_%s", strings.ToLower(religion), w.name), PrayerMultiplier
			}
		}
	}

	return false, "", 1.0
}

// Registry owns the set of event windows and answers activity queries.
// All mutation goes through the registry's lock.
type Registry struct {
	mu     sync.RWMutex
	events []models.EventWindow
	logger zerolog.Logger
}

// NewRegistry creates an empty event registry
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{
		events: make([]models.EventWindow, 0),
		logger: logging.NewServiceLogger(cfg, "events"),
	}
}

// Add appends an event window. No dedup; clearing a type is an explicit
// RemoveByType call.
func (r *Registry) Add(event models.EventWindow) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()

	r.logger.Info().
		Str("event_type", event.EventType).
		Str("description", event.Description).
		Float64("crowd_multiplier", event.CrowdMultiplier).
		Msg("Event added")
}

// RemoveByType removes all windows of the given type and returns how many
// were dropped
func (r *Registry) RemoveByType(eventType string) int {
	r.mu.Lock()
	kept := r.events[:0]
	removed := 0
	for _, e := range r.events {
		if e.EventType == eventType {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.events = kept
	r.mu.Unlock()

	if removed > 0 {
		r.logger.Info().Str("event_type", eventType).Int("removed", removed).Msg("Events removed")
	}
	return removed
}

// ActiveAt returns the windows active at t for the given country. When a
// cameraID is supplied, a window also matches if its camera allowlist
// contains that camera.
func (r *Registry) ActiveAt(t time.Time, country, cameraID string) []models.EventWindow {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []models.EventWindow
	for _, e := range r.events {
		if t.Before(e.StartTime) || t.After(e.EndTime) {
			continue
		}
		if matchesTarget(e, country, cameraID) {
			active = append(active, e)
		}
	}
	return active
}

func matchesTarget(e models.EventWindow, country, cameraID string) bool {
	for _, c := range e.TargetCountries {
		if c == country {
			return true
		}
	}
	if cameraID != "" && len(e.AffectedCameras) > 0 {
		for _, id := range e.AffectedCameras {
			if id == cameraID {
				return true
			}
		}
	}
	return false
}

// MaxMultiplier resolves the event multiplier for the active windows:
// the maximum among them, so overlapping relaxations never compound.
// Returns 1.0 and no descriptions when nothing is active.
func (r *Registry) MaxMultiplier(t time.Time, country, cameraID string) (float64, []string) {
	active := r.ActiveAt(t, country, cameraID)

	multiplier := 1.0
	descriptions := make([]string, 0, len(active))
	for i, e := range active {
		if i == 0 || e.CrowdMultiplier > multiplier {
			multiplier = e.CrowdMultiplier
		}
		descriptions = append(descriptions, fmt.Sprintf("%s: %s", e.EventType, e.Description))
	}
	return multiplier, descriptions
}

// RefreshPrayerWindows rebuilds today's prayer windows for the given
// religions and country: existing prayer windows are dropped first, so
// repeated invocations never duplicate. Windows whose end already passed
// are skipped. Returns the number of windows scheduled.
func (r *Registry) RefreshPrayerWindows(now time.Time, religions []string, country string) int {
	r.RemoveByType(PrayerEventType)

	scheduled := 0
	for _, religion := range religions {
		windows, ok := prayerSchedules[strings.ToLower(religion)]
		if !ok {
			continue
		}
		for _, w := range windows {
			start := time.Date(now.Year(), now.Month(), now.Day(), w.startHour, w.startMin, 0, 0, now.Location())
			end := time.Date(now.Year(), now.Month(), now.Day(), w.endHour, w.endMin, 0, 0, now.Location())

			// Only schedule windows still ahead of (or containing) now
			if !end.After(now) {
				continue
			}

			r.Add(models.EventWindow{
				EventType:       PrayerEventType,
				StartTime:       start,
				EndTime:         end,
				CrowdMultiplier: PrayerMultiplier,
				Description:     fmt.Sprintf("%s %s prayer time", titleCase(religion), titleCase(w.name)),
				TargetCountries: []string{country},
				IsActive:        false,
			})
			scheduled++
		}
	}

	r.logger.Info().
		Int("scheduled", scheduled).
		Strs("religions", religions).
		Msg("Prayer windows refreshed")
	return scheduled
}

// Events returns a snapshot of all registered windows
func (r *Registry) Events() []models.EventWindow {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.EventWindow, len(r.events))
	copy(out, r.events)
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
