package domain

// TripStats aggregates counts and travel distance over a whole trip.
// Categories with no stops are absent from CategoryCounts.
type TripStats struct {
	TotalStops      int                  `json:"total_stops"`
	TotalPhotos     int                  `json:"total_photos"`
	TotalDistanceKm float64              `json:"total_distance_km"`
	CategoryCounts  map[StopCategory]int `json:"category_counts"`
}

// CategoryCount is one histogram bucket.
type CategoryCount struct {
	Category StopCategory `json:"category"`
	Count    int          `json:"count"`
}

// SortedCategories returns the non-zero histogram buckets in category
// declaration order.
func (s TripStats) SortedCategories() []CategoryCount {
	out := make([]CategoryCount, 0, len(s.CategoryCounts))
	for _, c := range AllStopCategories() {
		if n := s.CategoryCounts[c]; n > 0 {
			out = append(out, CategoryCount{Category: c, Count: n})
		}
	}
	return out
}
