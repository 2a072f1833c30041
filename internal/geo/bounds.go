package geo

import (
	"github.com/paulmach/orb"

	"github.com/pkordes/tripwit/internal/domain"
)

// Bounds is a latitude/longitude bounding box.
type Bounds struct {
	Min domain.GeoPoint `json:"min"`
	Max domain.GeoPoint `json:"max"`
}

// BoundsOf returns the smallest box containing every point, grown by
// paddingDegrees on each side. ok is false when points is empty.
// The box does not wrap the antimeridian.
func BoundsOf(points []domain.GeoPoint, paddingDegrees float64) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}

	bound := toMultiPoint(points).Bound()
	if paddingDegrees > 0 {
		bound = bound.Pad(paddingDegrees)
	}

	return Bounds{
		Min: fromOrb(bound.Min),
		Max: fromOrb(bound.Max),
	}, true
}

// toOrb converts p to an orb.Point, which is ordered [lon, lat].
func toOrb(p domain.GeoPoint) orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

func fromOrb(p orb.Point) domain.GeoPoint {
	return domain.GeoPoint{Latitude: p.Lat(), Longitude: p.Lon()}
}

func toMultiPoint(points []domain.GeoPoint) orb.MultiPoint {
	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = toOrb(p)
	}
	return mp
}

// LineString converts an ordered path into an orb.LineString.
func LineString(points []domain.GeoPoint) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = toOrb(p)
	}
	return ls
}

// Point converts p into an orb.Point.
func Point(p domain.GeoPoint) orb.Point {
	return toOrb(p)
}
