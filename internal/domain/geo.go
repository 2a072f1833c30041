package domain

// GeoPoint is a latitude/longitude pair in degrees.
// Latitude is expected in [-90, 90] and longitude in [-180, 180]; nothing in
// the geo or matching code checks this, so callers validate at the edge.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether p lies inside the WGS 84 coordinate ranges.
func (p GeoPoint) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}
