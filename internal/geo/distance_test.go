package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMiles_IdenticalPoints(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{34.0901, -118.4065},
		{-90, 0},
		{90, 180},
	}

	for _, p := range points {
		d := DistanceMiles(p[0], p[1], p[0], p[1])
		assert.Equal(t, 0.0, d, "distance from a point to itself must be 0")
	}
}

func TestDistanceMiles_Symmetric(t *testing.T) {
	// Beverly Hills to downtown LA
	d1 := DistanceMiles(34.0901, -118.4065, 34.0522, -118.2437)
	d2 := DistanceMiles(34.0522, -118.2437, 34.0901, -118.4065)

	assert.InDelta(t, d1, d2, 1e-9)
}

func TestDistanceMiles_KnownDistance(t *testing.T) {
	// LA to NYC is roughly 2450 miles great-circle
	d := DistanceMiles(34.0522, -118.2437, 40.7128, -74.0060)

	assert.InDelta(t, 2450, d, 20)
}

func TestDistanceMiles_ShortDistance(t *testing.T) {
	// Two points about one mile apart along a meridian
	// (1 degree latitude ~ 69.1 miles)
	d := DistanceMiles(34.0, -118.0, 34.0+1.0/69.1, -118.0)

	assert.InDelta(t, 1.0, d, 0.01)
}

func TestDistanceMiles_AntipodalPoints(t *testing.T) {
	// Antipodal points stress the clamp on the haversine intermediate
	d := DistanceMiles(0, 0, 0, 180)

	assert.False(t, math.IsNaN(d), "antipodal distance must not be NaN")
	assert.InDelta(t, math.Pi*EarthRadiusMiles, d, 1.0)
}

func TestDistanceMiles_NeverNegative(t *testing.T) {
	cases := [][4]float64{
		{90, 0, -90, 0},
		{45.123456789, 120.987654321, 45.123456789, 120.987654321},
		{-33.8688, 151.2093, 51.5074, -0.1278},
	}

	for _, c := range cases {
		d := DistanceMiles(c[0], c[1], c[2], c[3])
		assert.GreaterOrEqual(t, d, 0.0)
		assert.False(t, math.IsNaN(d))
	}
}
