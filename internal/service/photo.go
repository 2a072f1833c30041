package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/tripwit/internal/domain"
	"github.com/pkordes/tripwit/internal/photomatch"
	"github.com/pkordes/tripwit/internal/repo"
)

// MatchObserver is told about every matching run. *metrics.Collector
// satisfies it.
type MatchObserver interface {
	RecordMatches(results []domain.PhotoMatchResult)
}

// MatchReport pairs each match result with the record stored for it.
// Results and Photos are index-aligned with the submitted photos.
type MatchReport struct {
	Results []domain.PhotoMatchResult
	Photos  []domain.MatchedPhoto
}

// PhotoService matches photos to the stops of a trip and manages the stored
// matches.
type PhotoService struct {
	trips    repo.TripRepo
	days     repo.DayRepo
	stops    repo.StopRepo
	photos   repo.PhotoRepo
	matcher  *photomatch.Matcher
	observer MatchObserver
}

// NewPhotoService constructs a PhotoService. observer may be nil.
func NewPhotoService(
	trips repo.TripRepo,
	days repo.DayRepo,
	stops repo.StopRepo,
	photos repo.PhotoRepo,
	matcher *photomatch.Matcher,
	observer MatchObserver,
) *PhotoService {
	return &PhotoService{
		trips:    trips,
		days:     days,
		stops:    stops,
		photos:   photos,
		matcher:  matcher,
		observer: observer,
	}
}

// Match grades every photo against every stop of the trip and stores one
// record per photo, matched or not, so unmatched photos can be assigned by
// hand later.
// Returns domain.ErrNotFound if the trip does not exist and
// domain.ErrValidation if any photo is malformed; nothing is stored then.
func (s *PhotoService) Match(ctx context.Context, tripID uuid.UUID, photos []domain.PhotoMetadata) (MatchReport, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return MatchReport{}, fmt.Errorf("service.PhotoService.Match: %w", err)
	}
	for i := range photos {
		if err := validatePhoto(&photos[i]); err != nil {
			return MatchReport{}, fmt.Errorf("service.PhotoService.Match: photo %d: %w", i, err)
		}
	}

	stops, err := s.stops.ListByTripID(ctx, tripID)
	if err != nil {
		return MatchReport{}, fmt.Errorf("service.PhotoService.Match: %w", err)
	}

	results := s.matcher.MatchPhotos(photos, stops)
	records := make([]domain.MatchedPhoto, len(results))
	for i, r := range results {
		records[i] = photomatch.ToMatchedPhoto(r, uuid.New())
	}

	if err := s.photos.CreateBatch(ctx, tripID, records); err != nil {
		return MatchReport{}, fmt.Errorf("service.PhotoService.Match: %w", err)
	}
	if s.observer != nil {
		s.observer.RecordMatches(results)
	}
	return MatchReport{Results: results, Photos: records}, nil
}

// ListByStopID returns the photos matched to one stop.
// Returns domain.ErrNotFound if the stop is not under that trip and day.
func (s *PhotoService) ListByStopID(ctx context.Context, tripID, dayID, stopID uuid.UUID) ([]domain.MatchedPhoto, error) {
	if _, err := s.days.GetByID(ctx, tripID, dayID); err != nil {
		return nil, fmt.Errorf("service.PhotoService.ListByStopID: %w", err)
	}
	if _, err := s.stops.GetByID(ctx, dayID, stopID); err != nil {
		return nil, fmt.Errorf("service.PhotoService.ListByStopID: %w", err)
	}
	photos, err := s.photos.ListByStopID(ctx, stopID)
	if err != nil {
		return nil, fmt.Errorf("service.PhotoService.ListByStopID: %w", err)
	}
	if photos == nil {
		return []domain.MatchedPhoto{}, nil
	}
	return photos, nil
}

// Assign moves a photo to stopID by hand, or clears its match when stopID is
// nil. The stop must belong to the same trip as the photo.
// Returns domain.ErrNotFound if the photo or the stop is not in the trip.
func (s *PhotoService) Assign(ctx context.Context, tripID, photoID uuid.UUID, stopID *uuid.UUID) (domain.MatchedPhoto, error) {
	if stopID != nil {
		stops, err := s.stops.ListByTripID(ctx, tripID)
		if err != nil {
			return domain.MatchedPhoto{}, fmt.Errorf("service.PhotoService.Assign: %w", err)
		}
		if !containsStop(stops, *stopID) {
			return domain.MatchedPhoto{}, fmt.Errorf("service.PhotoService.Assign: stop %s: %w", stopID, domain.ErrNotFound)
		}
	}

	p, err := s.photos.Assign(ctx, tripID, photoID, stopID)
	if err != nil {
		return domain.MatchedPhoto{}, fmt.Errorf("service.PhotoService.Assign: %w", err)
	}
	return p, nil
}

func containsStop(stops []domain.Stop, id uuid.UUID) bool {
	for _, st := range stops {
		if st.ID == id {
			return true
		}
	}
	return false
}

func validatePhoto(p *domain.PhotoMetadata) error {
	p.AssetIdentifier = strings.TrimSpace(p.AssetIdentifier)
	if p.AssetIdentifier == "" {
		return domain.Invalidf("asset_identifier is required")
	}
	if !p.Location.Valid() {
		return domain.Invalidf("latitude must be in [-90, 90] and longitude in [-180, 180]")
	}
	if p.CaptureDate.IsZero() {
		return domain.Invalidf("capture_date is required")
	}
	return nil
}
