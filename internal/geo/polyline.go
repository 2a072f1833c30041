package geo

import (
	"fmt"

	"github.com/twpayne/go-polyline"

	"github.com/pkordes/tripwit/internal/domain"
)

// EncodePath encodes an ordered path with the Google polyline algorithm
// (precision 1e-5). An empty path encodes to "".
func EncodePath(points []domain.GeoPoint) string {
	if len(points) == 0 {
		return ""
	}
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePath reverses EncodePath.
func DecodePath(encoded string) ([]domain.GeoPoint, error) {
	if encoded == "" {
		return nil, nil
	}
	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("geo.DecodePath: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("geo.DecodePath: %d trailing bytes", len(rest))
	}
	points := make([]domain.GeoPoint, len(coords))
	for i, c := range coords {
		points[i] = domain.GeoPoint{Latitude: c[0], Longitude: c[1]}
	}
	return points, nil
}
