package itinerary

import (
	"sort"

	"github.com/pkordes/tripwit/internal/domain"
	"github.com/pkordes/tripwit/internal/geo"
)

// Stats aggregates stop, photo and category counts for a trip, plus the
// distance travelled between consecutive stops. Stops are ordered by
// SortOrder within each day and the distance chain restarts every day.
// The trip is not modified.
func Stats(trip domain.Trip) domain.TripStats {
	stats := domain.TripStats{CategoryCounts: make(map[domain.StopCategory]int)}
	var meters float64

	for _, day := range trip.Days {
		stops := sortedStops(day.Stops)
		stats.TotalStops += len(stops)
		for i, s := range stops {
			stats.TotalPhotos += len(s.MatchedPhotos)
			stats.CategoryCounts[s.Category]++
			if i > 0 {
				meters += geo.Distance(stops[i-1].Location, s.Location)
			}
		}
	}

	stats.TotalDistanceKm = meters / 1000.0
	return stats
}

// DayPath returns the day's stop locations in SortOrder.
func DayPath(day domain.Day) []domain.GeoPoint {
	stops := sortedStops(day.Stops)
	path := make([]domain.GeoPoint, len(stops))
	for i, s := range stops {
		path[i] = s.Location
	}
	return path
}

// OrderedStops returns a copy of the day's stops ordered by SortOrder.
func OrderedStops(day domain.Day) []domain.Stop {
	return sortedStops(day.Stops)
}

func sortedStops(stops []domain.Stop) []domain.Stop {
	out := make([]domain.Stop, len(stops))
	copy(out, stops)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}
