package dispatch

import (
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"argus-worker-go/internal/config"
	"argus-worker-go/internal/logging"
	"argus-worker-go/internal/models"
	"argus-worker-go/internal/spatial"
)

// Service selects the nearest active responder post for an incident and
// pushes alerts over the message bus. Posts keep insertion order so
// distance ties resolve to the earliest-registered post.
type Service struct {
	cfg       *config.Config
	publisher models.MessagePublisher
	clock     models.Clock
	logger    zerolog.Logger

	mu       sync.RWMutex
	posts    []models.ResponderPost
	index    map[string]int
	channels map[string]bool // post IDs with a live alert channel
}

// NewService creates a dispatcher. The publisher may be nil; alerts are
// then dropped and dispatch still succeeds.
func NewService(cfg *config.Config, publisher models.MessagePublisher, clock models.Clock) *Service {
	return &Service{
		cfg:       cfg,
		publisher: publisher,
		clock:     clock,
		logger:    logging.NewServiceLogger(cfg, "dispatch"),
		index:     make(map[string]int),
		channels:  make(map[string]bool),
	}
}

// RegisterPost adds a responder post, or updates it in place when the ID
// is already known. Updates keep the post's original position.
func (s *Service) RegisterPost(post models.ResponderPost) {
	s.mu.Lock()
	if pos, ok := s.index[post.ID]; ok {
		s.posts[pos] = post
	} else {
		s.index[post.ID] = len(s.posts)
		s.posts = append(s.posts, post)
	}
	s.mu.Unlock()

	s.logger.Info().
		Str("post_id", post.ID).
		Str("name", post.Name).
		Bool("active", post.Active).
		Msg("Responder post registered")
}

// RemovePost drops a post and its channel registration
func (s *Service) RemovePost(postID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[postID]
	if !ok {
		return false
	}
	s.posts = append(s.posts[:pos], s.posts[pos+1:]...)
	delete(s.index, postID)
	delete(s.channels, postID)
	for i := pos; i < len(s.posts); i++ {
		s.index[s.posts[i].ID] = i
	}
	return true
}

// Posts returns a snapshot of the registered posts in registration order
func (s *Service) Posts() []models.ResponderPost {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ResponderPost, len(s.posts))
	copy(out, s.posts)
	return out
}

// RegisterChannel marks a post's alert channel as live. Alerts for posts
// without a live channel are dropped, not queued.
func (s *Service) RegisterChannel(postID string) {
	s.mu.Lock()
	s.channels[postID] = true
	s.mu.Unlock()

	s.logger.Info().Str("post_id", postID).Msg("Responder channel registered")
}

// UnregisterChannel marks a post's alert channel as gone
func (s *Service) UnregisterChannel(postID string) {
	s.mu.Lock()
	delete(s.channels, postID)
	s.mu.Unlock()
}

// FindNearest scans the active posts and returns the closest one by
// great-circle distance. Strictly-closer wins, so equidistant posts
// resolve to the first registered. False when no active post exists,
// which is a normal outcome, not an error.
func (s *Service) FindNearest(location models.GeoPoint) (models.ResponderMatch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best models.ResponderPost
	bestDistance := math.Inf(1)
	found := false

	for _, post := range s.posts {
		if !post.Active {
			continue
		}
		d := spatial.HaversineMeters(location.Lat, location.Lng, post.Location.Lat, post.Location.Lng)
		if d < bestDistance {
			best = post
			bestDistance = d
			found = true
		}
	}

	if !found {
		return models.ResponderMatch{}, false
	}
	return models.ResponderMatch{
		Post:           best,
		DistanceMeters: math.Round(bestDistance*100) / 100,
	}, true
}

// Dispatch assigns an incident ID, selects the nearest responder and
// publishes the alert and the incident broadcast. Delivery is best effort;
// a missing responder or dead channel never fails the dispatch.
func (s *Service) Dispatch(cameraID, incidentType string, severity models.IncidentSeverity, location models.GeoPoint, description string) (models.Incident, *models.ResponderMatch) {
	incident := models.Incident{
		IncidentID:   uuid.NewString(),
		CameraID:     cameraID,
		IncidentType: incidentType,
		Severity:     severity,
		Location:     location,
		Description:  description,
		Timestamp:    s.clock.Now(),
	}

	match, found := s.FindNearest(location)
	if !found {
		s.logger.Warn().
			Str("incident_id", incident.IncidentID).
			Str("camera_id", cameraID).
			Msg("No active responder post available")
	} else {
		s.logger.Info().
			Str("incident_id", incident.IncidentID).
			Str("post_id", match.Post.ID).
			Float64("distance_meters", match.DistanceMeters).
			Msg("Responder selected")
		s.sendAlert(incident, match)
	}

	s.broadcast(incident)

	if !found {
		return incident, nil
	}
	return incident, &match
}

// sendAlert pushes the priority alert to the responder's subject. Dropped
// silently when the post has no live channel or the bus is down.
func (s *Service) sendAlert(incident models.Incident, match models.ResponderMatch) {
	s.mu.RLock()
	live := s.channels[match.Post.ID]
	s.mu.RUnlock()

	if !live {
		s.logger.Debug().
			Str("post_id", match.Post.ID).
			Str("incident_id", incident.IncidentID).
			Msg("No live channel for responder, alert dropped")
		return
	}
	if s.publisher == nil || !s.publisher.IsConnected() {
		s.logger.Debug().Str("incident_id", incident.IncidentID).Msg("Publisher unavailable, alert dropped")
		return
	}

	subject := fmt.Sprintf("%s.%s", s.cfg.ResponderSubjectPrefix, match.Post.ID)
	alert := models.AlertMessage{
		Type:           models.AlertTypePriority,
		Incident:       incident,
		Responder:      match.Post,
		DistanceMeters: match.DistanceMeters,
		Timestamp:      s.clock.Now(),
	}
	if err := s.publisher.Publish(subject, alert); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("Failed to publish responder alert")
	}
}

// broadcast publishes every dispatched incident on the shared subject
func (s *Service) broadcast(incident models.Incident) {
	if s.publisher == nil || !s.publisher.IsConnected() {
		return
	}

	msg := models.AlertMessage{
		Type:      models.AlertTypeIncident,
		Incident:  incident,
		Timestamp: s.clock.Now(),
	}
	if err := s.publisher.Publish(s.cfg.IncidentsSubject, msg); err != nil {
		s.logger.Warn().Err(err).Str("subject", s.cfg.IncidentsSubject).Msg("Failed to publish incident broadcast")
	}
}
