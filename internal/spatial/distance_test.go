package spatial

import (
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineMetersIdentity(t *testing.T) {
	assert.Equal(t, 0.0, HaversineMeters(40.7128, -74.0060, 40.7128, -74.0060))
	assert.Equal(t, 0.0, HaversineMeters(0, 0, 0, 0))
}

func TestHaversineMetersSymmetry(t *testing.T) {
	d1 := HaversineMeters(33.8938, 35.5018, 40.7128, -74.0060)
	d2 := HaversineMeters(40.7128, -74.0060, 33.8938, 35.5018)
	assert.InDelta(t, d1, d2, 1e-6)
}

func TestHaversineMetersKnownDistance(t *testing.T) {
	// One degree of latitude at the equator is ~111.19 km for R=6371 km
	d := HaversineMeters(0, 0, 1, 0)
	assert.InDelta(t, 111194.9, d, 50)
}

func TestHaversineMetersMonotonicAlongBearing(t *testing.T) {
	// Walking further along a fixed bearing must strictly increase the
	// distance from the start point
	startLat, startLng := 33.8938, 35.5018
	bearing := 45.0

	prev := 0.0
	for _, step := range []float64{100, 500, 1000, 5000, 20000} {
		lat, lng := DestinationPoint(startLat, startLng, bearing, step)
		d := HaversineMeters(startLat, startLng, lat, lng)
		require.Greater(t, d, prev, "distance must grow with step %v", step)
		// Round-trip through DestinationPoint should land near the step length
		assert.InDelta(t, step, d, step*0.01+1)
		prev = d
	}
}

func TestHaversineAgreesWithS2(t *testing.T) {
	p1 := s2.LatLngFromDegrees(33.8938, 35.5018)
	p2 := s2.LatLngFromDegrees(34.0, 36.0)
	want := p1.Distance(p2).Radians() * EarthRadiusMeters

	got := HaversineMeters(33.8938, 35.5018, 34.0, 36.0)
	assert.InDelta(t, want, got, 1.0)
}

func TestBearingCardinalDirections(t *testing.T) {
	assert.InDelta(t, 0, Bearing(0, 0, 1, 0), 1e-9)   // due north
	assert.InDelta(t, 90, Bearing(0, 0, 0, 1), 1e-9)  // due east
	assert.InDelta(t, 180, Bearing(1, 0, 0, 0), 1e-9) // due south
	assert.InDelta(t, 270, Bearing(0, 1, 0, 0), 1e-9) // due west
}
