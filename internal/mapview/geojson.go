// Package mapview renders a loaded trip as map overlays: a GeoJSON
// FeatureCollection for web maps and a KML document for desktop GIS tools.
// Both are read-only views of the trip graph.
package mapview

import (
	"fmt"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/pkordes/tripwit/internal/domain"
	"github.com/pkordes/tripwit/internal/geo"
	"github.com/pkordes/tripwit/internal/itinerary"
)

// boundsPaddingDegrees keeps edge markers off the map border.
const boundsPaddingDegrees = 0.01

// GeoJSON returns a FeatureCollection with one Point feature per stop and one
// LineString feature per day that has at least two stops. Each day line also
// carries its Google-encoded polyline. The collection's bbox covers every
// stop; it is omitted for a trip without stops.
func GeoJSON(trip domain.Trip) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	var all []domain.GeoPoint

	for _, day := range trip.Days {
		stops := itinerary.OrderedStops(day)
		for _, s := range stops {
			fc.Append(stopFeature(day, s))
			all = append(all, s.Location)
		}

		path := itinerary.DayPath(day)
		if len(path) < 2 {
			continue
		}
		line := geojson.NewFeature(geo.LineString(path))
		line.Properties["kind"] = "route"
		line.Properties["day_id"] = day.ID.String()
		line.Properties["day_number"] = day.DayNumber
		line.Properties["polyline"] = geo.EncodePath(path)
		fc.Append(line)
	}

	if b, ok := geo.BoundsOf(all, boundsPaddingDegrees); ok {
		fc.BBox = geojson.BBox{b.Min.Longitude, b.Min.Latitude, b.Max.Longitude, b.Max.Latitude}
	}

	out, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("mapview.GeoJSON: %w", err)
	}
	return out, nil
}

func stopFeature(day domain.Day, s domain.Stop) *geojson.Feature {
	f := geojson.NewFeature(geo.Point(s.Location))
	f.ID = s.ID.String()
	f.Properties["kind"] = "stop"
	f.Properties["name"] = s.Name
	f.Properties["category"] = string(s.Category)
	f.Properties["day_number"] = day.DayNumber
	f.Properties["sort_order"] = s.SortOrder
	f.Properties["photo_count"] = len(s.MatchedPhotos)
	if s.ArrivalTime != nil {
		f.Properties["arrival_time"] = s.ArrivalTime.Format(time.RFC3339)
	}
	if s.DepartureTime != nil {
		f.Properties["departure_time"] = s.DepartureTime.Format(time.RFC3339)
	}
	return f
}
