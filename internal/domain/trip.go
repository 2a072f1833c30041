// Package domain contains the core data types for the TripWit backend.
// Types here are plain values: the geo, itinerary and photomatch packages
// compute over them, and the repo, service and handler packages move them
// between Postgres and HTTP.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle label stored with a trip.
type TripStatus string

const (
	TripStatusPlanning  TripStatus = "planning"
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
)

// ParseTripStatus converts a stored or user-supplied label into a TripStatus.
// Returns ErrValidation for unknown labels.
func ParseTripStatus(s string) (TripStatus, error) {
	switch st := TripStatus(s); st {
	case TripStatusPlanning, TripStatusActive, TripStatusCompleted:
		return st, nil
	}
	return "", Invalidf("unknown trip status %q", s)
}

// Trip is the top-level itinerary aggregate. Days are ordered by date when
// loaded through the service layer.
// EndDate is expected to be on or after StartDate; day generation yields no
// days otherwise.
type Trip struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Destination       string     `json:"destination,omitempty"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           time.Time  `json:"end_date"`
	Status            TripStatus `json:"status"`
	CoverPhotoAssetID *string    `json:"cover_photo_asset_id,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Days              []Day      `json:"days,omitempty"`
}

// AllStops returns every stop of the trip, day by day in the order the days
// and stops appear in the aggregate.
func (t Trip) AllStops() []Stop {
	var out []Stop
	for _, d := range t.Days {
		out = append(out, d.Stops...)
	}
	return out
}
