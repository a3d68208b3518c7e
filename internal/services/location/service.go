package location

import (
	"strings"

	"github.com/rs/zerolog"

	"argus-worker-go/internal/config"
	"argus-worker-go/internal/logging"
	"argus-worker-go/internal/models"
)

// Approximate national population densities (people per km²). Stand-in for
// a demographic data source, keyed by lowercased country name.
var densityByCountry = map[string]float64{
	"lebanon":    667,
	"usa":        36,
	"uk":         275,
	"japan":      347,
	"singapore":  8358,
	"bangladesh": 1265,
	"canada":     4,
	"australia":  3,
}

const (
	defaultDensity = 100 // medium density when the country is unlisted
	// Cities are typically 3-5x denser than the national average
	cityDensityMultiplier = 4.0
)

var collectivistCountries = map[string]bool{
	"japan":       true,
	"south korea": true,
	"china":       true,
	"singapore":   true,
	"lebanon":     true,
	"uae":         true,
}

var individualistCountries = map[string]bool{
	"usa":       true,
	"uk":        true,
	"canada":    true,
	"australia": true,
	"germany":   true,
	"france":    true,
}

var religionsByCountry = map[string][]string{
	"lebanon":      {"islam", "christianity"},
	"usa":          {"christianity"},
	"uk":           {"christianity"},
	"japan":        {"buddhism"},
	"singapore":    {"buddhism", "islam", "hinduism"},
	"bangladesh":   {"islam"},
	"india":        {"hinduism", "islam"},
	"china":        {"buddhism"},
	"uae":          {"islam"},
	"saudi arabia": {"islam"},
}

// Service resolves a site configuration into a LocationContext
type Service struct {
	logger zerolog.Logger
}

// NewService creates a new location resolver service
func NewService(cfg *config.Config) *Service {
	return &Service{
		logger: logging.NewServiceLogger(cfg, "location"),
	}
}

// Resolve derives the location context for a country/city pair. Missing
// fields fall back to "Unknown" and table defaults; Resolve never fails.
func (s *Service) Resolve(country, city string, lat, lng float64) models.LocationContext {
	if country == "" {
		country = "Unknown"
	}
	if city == "" {
		city = "Unknown"
	}

	ctx := models.LocationContext{
		Country:           country,
		City:              city,
		Timezone:          "UTC",
		PopulationDensity: s.estimatePopulationDensity(country, city),
		CulturalContext:   s.culturalContext(country),
		ReligiousMajority: s.religiousMajority(country),
		Latitude:          lat,
		Longitude:         lng,
	}

	s.logger.Info().
		Str("country", ctx.Country).
		Str("city", ctx.City).
		Float64("population_density", ctx.PopulationDensity).
		Str("cultural_context", string(ctx.CulturalContext)).
		Strs("religious_majority", ctx.ReligiousMajority).
		Msg("Location context resolved")

	return ctx
}

// estimatePopulationDensity approximates local density from the national
// figure, boosted when a specific city is configured
func (s *Service) estimatePopulationDensity(country, city string) float64 {
	base, ok := densityByCountry[strings.ToLower(country)]
	if !ok {
		base = defaultDensity
	}

	cityMultiplier := 1.0
	if strings.ToLower(city) != "unknown" {
		cityMultiplier = cityDensityMultiplier
	}

	return base * cityMultiplier
}

func (s *Service) culturalContext(country string) models.CulturalContext {
	countryLower := strings.ToLower(country)
	switch {
	case collectivistCountries[countryLower]:
		return models.CulturalCollectivist
	case individualistCountries[countryLower]:
		return models.CulturalIndividualist
	default:
		return models.CulturalMixed
	}
}

func (s *Service) religiousMajority(country string) []string {
	if religions, ok := religionsByCountry[strings.ToLower(country)]; ok {
		return religions
	}
	return []string{"christianity"}
}
