package mapview

import (
	"fmt"
	"io"

	"github.com/twpayne/go-kml"

	"github.com/pkordes/tripwit/internal/domain"
	"github.com/pkordes/tripwit/internal/itinerary"
)

// KML writes the trip as a KML Document with one Folder per day. A folder
// holds a Placemark per stop, in visiting order, followed by the day's route
// as a tessellated LineString when the day has two or more stops.
func KML(trip domain.Trip, w io.Writer) error {
	folders := make([]kml.Element, 0, len(trip.Days)+2)
	folders = append(folders, kml.Name(trip.Name))
	if trip.Destination != "" {
		folders = append(folders, kml.Description(trip.Destination))
	}

	for _, day := range trip.Days {
		folders = append(folders, dayFolder(day))
	}

	doc := kml.KML(kml.Document(folders...))
	if err := doc.WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("mapview.KML: %w", err)
	}
	return nil
}

func dayFolder(day domain.Day) kml.Element {
	children := []kml.Element{
		kml.Name(fmt.Sprintf("Day %d (%s)", day.DayNumber, day.Date.Format("2006-01-02"))),
	}

	stops := itinerary.OrderedStops(day)
	for _, s := range stops {
		children = append(children, kml.Placemark(
			kml.Name(s.Name),
			kml.Description(string(s.Category)),
			kml.Point(kml.Coordinates(coordinate(s.Location))),
		))
	}

	if len(stops) >= 2 {
		coords := make([]kml.Coordinate, len(stops))
		for i, s := range stops {
			coords[i] = coordinate(s.Location)
		}
		children = append(children, kml.Placemark(
			kml.Name(fmt.Sprintf("Day %d route", day.DayNumber)),
			kml.LineString(
				kml.Tessellate(true),
				kml.Coordinates(coords...),
			),
		))
	}

	return kml.Folder(children...)
}

func coordinate(p domain.GeoPoint) kml.Coordinate {
	return kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
}
