// Package photomatch assigns photos to the nearest itinerary stop and grades
// each assignment by distance and by how close the capture time is to the
// stop's arrival or departure.
package photomatch

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripwit/internal/domain"
	"github.com/pkordes/tripwit/internal/geo"
)

// Config holds the matching thresholds.
type Config struct {
	// MaxDistanceMeters is the radius for high and medium confidence.
	// Matches out to twice this radius are graded low.
	MaxDistanceMeters float64
	// MaxTimeWindow is how far the capture time may be from a stop's
	// arrival or departure for a high confidence match.
	MaxTimeWindow time.Duration
}

// DefaultConfig returns the standard thresholds: 200 m and 2 hours.
func DefaultConfig() Config {
	return Config{
		MaxDistanceMeters: 200,
		MaxTimeWindow:     2 * time.Hour,
	}
}

// Matcher matches photos to stops. It is immutable and safe for concurrent use.
type Matcher struct {
	cfg Config
}

// New returns a Matcher using cfg.
func New(cfg Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// Config returns the thresholds the matcher was built with.
func (m *Matcher) Config() Config { return m.cfg }

// MatchPhotos returns one result per photo, in the same order as photos.
//
// Each photo goes to the stop with the smallest Haversine distance; on a tie
// the stop that comes first in stops wins. The result is graded:
//
//   - high: within MaxDistanceMeters and within MaxTimeWindow of the stop's
//     arrival or departure time
//   - medium: within MaxDistanceMeters only
//   - low: within twice MaxDistanceMeters
//
// Beyond that the photo is left unmatched with low confidence and the true
// nearest distance. With no stops at all every photo is unmatched at +Inf.
func (m *Matcher) MatchPhotos(photos []domain.PhotoMetadata, stops []domain.Stop) []domain.PhotoMatchResult {
	results := make([]domain.PhotoMatchResult, len(photos))
	for i, p := range photos {
		results[i] = m.matchOne(p, stops)
	}
	return results
}

func (m *Matcher) matchOne(photo domain.PhotoMetadata, stops []domain.Stop) domain.PhotoMatchResult {
	result := domain.PhotoMatchResult{
		Photo:          photo,
		Confidence:     domain.ConfidenceLow,
		DistanceMeters: math.Inf(1),
	}
	if len(stops) == 0 {
		return result
	}

	nearest := -1
	for i := range stops {
		if d := geo.Distance(photo.Location, stops[i].Location); d < result.DistanceMeters {
			result.DistanceMeters = d
			nearest = i
		}
	}
	if nearest < 0 {
		// Every distance was NaN; only reachable with invalid coordinates.
		return result
	}

	d := result.DistanceMeters
	switch {
	case d <= m.cfg.MaxDistanceMeters:
		if m.withinTimeWindow(photo.CaptureDate, stops[nearest]) {
			result.Confidence = domain.ConfidenceHigh
		} else {
			result.Confidence = domain.ConfidenceMedium
		}
	case d <= 2*m.cfg.MaxDistanceMeters:
		result.Confidence = domain.ConfidenceLow
	default:
		return result
	}

	stop := stops[nearest]
	result.MatchedStop = &stop
	return result
}

// withinTimeWindow reports whether captured is close enough to the stop's
// arrival or departure. A stop with neither time set never qualifies.
func (m *Matcher) withinTimeWindow(captured time.Time, stop domain.Stop) bool {
	for _, t := range []*time.Time{stop.ArrivalTime, stop.DepartureTime} {
		if t != nil && absDuration(captured.Sub(*t)) <= m.cfg.MaxTimeWindow {
			return true
		}
	}
	return false
}

func absDuration(d time.Duration) time.Duration {
	if d == math.MinInt64 {
		return math.MaxInt64
	}
	if d < 0 {
		return -d
	}
	return d
}

// ToMatchedPhoto turns a match result into the record that gets persisted.
// Unmatched results produce a photo with no MatchedStopID.
func ToMatchedPhoto(r domain.PhotoMatchResult, id uuid.UUID) domain.MatchedPhoto {
	mp := domain.MatchedPhoto{
		ID:              id,
		AssetIdentifier: r.Photo.AssetIdentifier,
		Location:        r.Photo.Location,
		CaptureDate:     r.Photo.CaptureDate,
		MatchConfidence: r.Confidence,
	}
	if r.MatchedStop != nil {
		stopID := r.MatchedStop.ID
		mp.MatchedStopID = &stopID
	}
	return mp
}
