// Package geo provides great-circle distance and aggregation helpers over a
// spherical Earth. All functions are pure and safe for concurrent use.
package geo

import (
	"math"

	"github.com/pkordes/tripwit/internal/domain"
)

// EarthRadiusMeters is the mean Earth radius used by every calculation here.
const EarthRadiusMeters = 6_371_000.0

// Distance returns the Haversine great-circle distance between a and b in meters.
//
//	a = sin²(Δφ/2) + cos φ1 ⋅ cos φ2 ⋅ sin²(Δλ/2)
//	c = 2 ⋅ atan2(√a, √(1−a))
//	d = R ⋅ c
func Distance(a, b domain.GeoPoint) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// IsWithinRadius reports whether b lies within radiusMeters of a.
// The boundary is inclusive.
func IsWithinRadius(a, b domain.GeoPoint, radiusMeters float64) bool {
	return Distance(a, b) <= radiusMeters
}

// CenterPoint returns the spherical centroid of points, found by averaging
// their unit vectors. ok is false when points is empty.
func CenterPoint(points []domain.GeoPoint) (center domain.GeoPoint, ok bool) {
	if len(points) == 0 {
		return domain.GeoPoint{}, false
	}

	var x, y, z float64
	for _, p := range points {
		lat := toRadians(p.Latitude)
		lon := toRadians(p.Longitude)
		x += math.Cos(lat) * math.Cos(lon)
		y += math.Cos(lat) * math.Sin(lon)
		z += math.Sin(lat)
	}

	n := float64(len(points))
	x /= n
	y /= n
	z /= n

	return domain.GeoPoint{
		Latitude:  toDegrees(math.Atan2(z, math.Sqrt(x*x+y*y))),
		Longitude: toDegrees(math.Atan2(y, x)),
	}, true
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }
