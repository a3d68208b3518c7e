package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Application
	Version     string
	Environment string
	WorkerID    string
	Port        int
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// NATS (for alert delivery)
	// Default: nats://localhost:4222 (works with Docker Compose setup)
	// Docker: Use nats://nats:4222 if running worker in Docker
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int
	NatsDrainTimeout   time.Duration // For graceful shutdown

	// Alert subjects
	ResponderSubjectPrefix string // per-responder alerts: <prefix>.<post_id>
	IncidentsSubject       string // broadcast of every dispatched incident

	// Site location (drives the location context)
	Country   string
	City      string
	CenterLat float64
	CenterLng float64

	// Cameras registered at startup, all belonging to Country
	CameraIDs []string

	// Base crowd thresholds (before contextual multipliers)
	BaseCrowdDensity     float64
	BaseGatheringSize    float64
	BaseMaxNormalDensity float64

	// Crowd analyzer tuning
	GatheringDuration time.Duration // gathering older than this is unusual
	HistoryWindow     time.Duration // sliding window for crowd history
	FrameAreaDivisor  float64       // density = count / (frame_area / divisor)
	StabilitySamples  int           // history samples used for stability

	// Prayer window reconciliation (cron spec, local time)
	PrayerRefreshCron string

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found or error loading .env file, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		WorkerID:    getEnv("WORKER_ID", "worker-1"),
		Port:        getEnvInt("PORT", 8000),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy (lightweight web log viewer)
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// NATS (configured for Docker Compose setup)
		NatsURL:            getNatsURL(),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited
		NatsDrainTimeout:   getEnvDuration("NATS_DRAIN_TIMEOUT", 5*time.Second),

		// Alert subjects
		ResponderSubjectPrefix: getEnv("RESPONDER_SUBJECT_PREFIX", "alerts.responder"),
		IncidentsSubject:       getEnv("INCIDENTS_SUBJECT", "incidents"),

		// Site location
		Country:   getEnv("SITE_COUNTRY", "Unknown"),
		City:      getEnv("SITE_CITY", "Unknown"),
		CenterLat: getEnvFloat("SITE_CENTER_LAT", 0.0),
		CenterLng: getEnvFloat("SITE_CENTER_LNG", 0.0),

		// Cameras
		CameraIDs: getEnvList("CAMERA_IDS", nil),

		// Base crowd thresholds
		BaseCrowdDensity:     getEnvFloat("BASE_CROWD_DENSITY", 5),
		BaseGatheringSize:    getEnvFloat("BASE_GATHERING_SIZE", 8),
		BaseMaxNormalDensity: getEnvFloat("BASE_MAX_NORMAL_DENSITY", 10),

		// Crowd analyzer tuning
		GatheringDuration: getEnvDuration("GATHERING_DURATION", 30*time.Second),
		HistoryWindow:     getEnvDuration("HISTORY_WINDOW", 60*time.Second),
		FrameAreaDivisor:  getEnvFloat("FRAME_AREA_DIVISOR", 10000),
		StabilitySamples:  getEnvInt("STABILITY_SAMPLES", 5),

		// Prayer window reconciliation, once per day just after midnight
		PrayerRefreshCron: getEnv("PRAYER_REFRESH_CRON", "1 0 * * *"),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	return defaultValue
}

// Helper functions for Docker environment detection
func isRunningInDocker() bool {
	// Check for Docker-specific environment indicators
	if os.Getenv("DOCKER_CONTAINER") == "true" {
		return true
	}

	// Check for .dockerenv file
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	return false
}

// getNatsURL returns the appropriate NATS URL based on environment
func getNatsURL() string {
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		return envURL
	}

	// If running in Docker, use service name; otherwise use localhost
	if isRunningInDocker() {
		return "nats://nats:4222"
	}

	return "nats://localhost:4222"
}
