package domain

import (
	"time"

	"github.com/google/uuid"
)

// MatchConfidence grades how sure a photo-to-stop match is.
// Ordering is high > medium > low and comes from Rank, not from the order of
// the constants below.
type MatchConfidence string

const (
	ConfidenceHigh   MatchConfidence = "high"
	ConfidenceMedium MatchConfidence = "medium"
	ConfidenceLow    MatchConfidence = "low"
)

// Rank returns the ordinal of c: high=2, medium=1, low=0. Unknown values
// rank below low.
func (c MatchConfidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	case ConfidenceLow:
		return 0
	}
	return -1
}

// Less reports whether c ranks strictly below other.
func (c MatchConfidence) Less(other MatchConfidence) bool {
	return c.Rank() < other.Rank()
}

// ParseMatchConfidence converts a stored label into a MatchConfidence.
func ParseMatchConfidence(s string) (MatchConfidence, error) {
	c := MatchConfidence(s)
	if c.Rank() < 0 {
		return "", Invalidf("unknown match confidence %q", s)
	}
	return c, nil
}

// PhotoMetadata is a photo waiting to be matched: where and when it was taken.
type PhotoMetadata struct {
	AssetIdentifier string    `json:"asset_identifier"`
	Location        GeoPoint  `json:"location"`
	CaptureDate     time.Time `json:"capture_date"`
}

// MatchedPhoto is the persisted outcome of matching a photo.
// MatchedStopID is nil when the photo did not land near any stop.
type MatchedPhoto struct {
	ID                 uuid.UUID       `json:"id"`
	AssetIdentifier    string          `json:"asset_identifier"`
	Location           GeoPoint        `json:"location"`
	CaptureDate        time.Time       `json:"capture_date"`
	MatchConfidence    MatchConfidence `json:"match_confidence"`
	MatchedStopID      *uuid.UUID      `json:"matched_stop_id,omitempty"`
	IsManuallyAssigned bool            `json:"is_manually_assigned"`
}

// PhotoMatchResult is the transient output of matching one photo.
// MatchedStop is nil for "no match"; DistanceMeters is +Inf only when there
// were no stops to compare against.
type PhotoMatchResult struct {
	Photo          PhotoMetadata
	MatchedStop    *Stop
	Confidence     MatchConfidence
	DistanceMeters float64
}
