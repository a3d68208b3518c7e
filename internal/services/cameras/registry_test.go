package cameras

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"argus-worker-go/internal/config"
)

func newTestRegistry() *Registry {
	return NewRegistry(&config.Config{WorkerID: "test-worker"})
}

func TestRegisterAndLookup(t *testing.T) {
	reg := newTestRegistry()

	assert.True(t, reg.Register("cam-1", "Lebanon"))
	assert.True(t, reg.Register("cam-2", "Lebanon"))

	country, ok := reg.CountryOf("cam-1")
	assert.True(t, ok)
	assert.Equal(t, "Lebanon", country)

	assert.ElementsMatch(t, []string{"cam-1", "cam-2"}, reg.CamerasIn("Lebanon"))
	assert.Equal(t, 2, reg.Count())
}

func TestCountryOfUnknownCamera(t *testing.T) {
	reg := newTestRegistry()

	_, ok := reg.CountryOf("ghost")
	assert.False(t, ok)
}

func TestNoSilentReassignment(t *testing.T) {
	reg := newTestRegistry()

	assert.True(t, reg.Register("cam-1", "Lebanon"))
	assert.False(t, reg.Register("cam-1", "USA"))

	country, _ := reg.CountryOf("cam-1")
	assert.Equal(t, "Lebanon", country)
	assert.Empty(t, reg.CamerasIn("USA"))
}

func TestReRegisterSameCountryIsIdempotent(t *testing.T) {
	reg := newTestRegistry()

	assert.True(t, reg.Register("cam-1", "Lebanon"))
	assert.True(t, reg.Register("cam-1", "Lebanon"))

	assert.Equal(t, []string{"cam-1"}, reg.CamerasIn("Lebanon"))
}

func TestReplaceIsTheOnlyWayToMoveACamera(t *testing.T) {
	reg := newTestRegistry()
	reg.Register("cam-1", "Lebanon")

	reg.Replace(map[string]string{"cam-1": "USA", "cam-9": "USA"})

	country, ok := reg.CountryOf("cam-1")
	assert.True(t, ok)
	assert.Equal(t, "USA", country)
	assert.Empty(t, reg.CamerasIn("Lebanon"))
	assert.Equal(t, 2, reg.Count())
}

func TestRegisterEmptyCountryFallsBackToUnknown(t *testing.T) {
	reg := newTestRegistry()

	assert.True(t, reg.Register("cam-1", ""))

	country, _ := reg.CountryOf("cam-1")
	assert.Equal(t, "Unknown", country)
}

func TestRegisterAll(t *testing.T) {
	reg := newTestRegistry()

	n := reg.RegisterAll("Lebanon", []string{"cam-1", "cam-2", "cam-3"})
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, reg.Count())
}
