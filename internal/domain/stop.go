package domain

import (
	"time"

	"github.com/google/uuid"
)

// StopCategory classifies what kind of place a stop is.
type StopCategory string

const (
	CategoryAccommodation StopCategory = "accommodation"
	CategoryRestaurant    StopCategory = "restaurant"
	CategoryAttraction    StopCategory = "attraction"
	CategoryTransport     StopCategory = "transport"
	CategoryActivity      StopCategory = "activity"
	CategoryOther         StopCategory = "other"
)

// AllStopCategories returns every category in declaration order.
func AllStopCategories() []StopCategory {
	return []StopCategory{
		CategoryAccommodation,
		CategoryRestaurant,
		CategoryAttraction,
		CategoryTransport,
		CategoryActivity,
		CategoryOther,
	}
}

// ParseStopCategory converts a label into a StopCategory. An empty label
// maps to CategoryOther. Returns ErrValidation for unknown labels.
func ParseStopCategory(s string) (StopCategory, error) {
	if s == "" {
		return CategoryOther, nil
	}
	for _, c := range AllStopCategories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", Invalidf("unknown stop category %q", s)
}

// Stop is a single visited location within a day's itinerary.
// SortOrder is the zero-based position within the day. ArrivalTime and
// DepartureTime are nil when unknown.
type Stop struct {
	ID            uuid.UUID      `json:"id"`
	DayID         uuid.UUID      `json:"day_id"`
	Name          string         `json:"name"`
	Location      GeoPoint       `json:"location"`
	ArrivalTime   *time.Time     `json:"arrival_time,omitempty"`
	DepartureTime *time.Time     `json:"departure_time,omitempty"`
	Category      StopCategory   `json:"category"`
	Notes         string         `json:"notes,omitempty"`
	SortOrder     int            `json:"sort_order"`
	MatchedPhotos []MatchedPhoto `json:"matched_photos,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
