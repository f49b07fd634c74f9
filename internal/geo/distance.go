// Package geo provides great-circle distance calculations for the radius
// search filter.
package geo

import (
	"math"
)

// EarthRadiusMiles is the mean Earth radius used by the haversine formula.
const EarthRadiusMiles = 3959.0

// DistanceMiles returns the great-circle distance in miles between two
// latitude/longitude pairs given in degrees, using the haversine formula.
// Identical points yield exactly 0.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	sinLat := math.Sin(deltaLat / 2)
	sinLng := math.Sin(deltaLng / 2)

	a := sinLat*sinLat + math.Cos(lat1Rad)*math.Cos(lat2Rad)*sinLng*sinLng

	// Floating-point rounding can push a fractionally outside [0,1], which
	// would make Sqrt(1-a) NaN near antipodal points. Clamp before Atan2.
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMiles * c
}
