package location

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"argus-worker-go/internal/config"
	"argus-worker-go/internal/models"
)

func newTestService() *Service {
	return NewService(&config.Config{WorkerID: "test-worker"})
}

func TestResolveKnownCountry(t *testing.T) {
	svc := newTestService()

	ctx := svc.Resolve("Lebanon", "Beirut", 33.8938, 35.5018)

	assert.Equal(t, "Lebanon", ctx.Country)
	assert.Equal(t, "Beirut", ctx.City)
	// 667 national density x4 city multiplier
	assert.Equal(t, 2668.0, ctx.PopulationDensity)
	assert.Equal(t, models.CulturalCollectivist, ctx.CulturalContext)
	assert.Equal(t, []string{"islam", "christianity"}, ctx.ReligiousMajority)
	assert.Equal(t, 33.8938, ctx.Latitude)
	assert.Equal(t, 35.5018, ctx.Longitude)
}

func TestResolveUnknownCountryDefaults(t *testing.T) {
	svc := newTestService()

	ctx := svc.Resolve("Atlantis", "Unknown", 0, 0)

	// Table default 100, no city multiplier for "Unknown"
	assert.Equal(t, 100.0, ctx.PopulationDensity)
	assert.Equal(t, models.CulturalMixed, ctx.CulturalContext)
	assert.Equal(t, []string{"christianity"}, ctx.ReligiousMajority)
}

func TestResolveEmptyInputsNeverFail(t *testing.T) {
	svc := newTestService()

	ctx := svc.Resolve("", "", 0, 0)

	assert.Equal(t, "Unknown", ctx.Country)
	assert.Equal(t, "Unknown", ctx.City)
	assert.Equal(t, 100.0, ctx.PopulationDensity)
}

func TestResolveCityMultiplier(t *testing.T) {
	svc := newTestService()

	withCity := svc.Resolve("USA", "New York", 0, 0)
	noCity := svc.Resolve("USA", "Unknown", 0, 0)

	assert.Equal(t, 36.0*4, withCity.PopulationDensity)
	assert.Equal(t, 36.0, noCity.PopulationDensity)
}

func TestResolveCulturalCategories(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		country string
		want    models.CulturalContext
	}{
		{"Japan", models.CulturalCollectivist},
		{"UAE", models.CulturalCollectivist},
		{"Germany", models.CulturalIndividualist},
		{"uk", models.CulturalIndividualist},
		{"Brazil", models.CulturalMixed},
	}

	for _, tt := range tests {
		ctx := svc.Resolve(tt.country, "Unknown", 0, 0)
		assert.Equal(t, tt.want, ctx.CulturalContext, "country %s", tt.country)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	svc := newTestService()

	a := svc.Resolve("Singapore", "Singapore", 1.35, 103.82)
	b := svc.Resolve("Singapore", "Singapore", 1.35, 103.82)

	assert.Equal(t, a, b)
}
