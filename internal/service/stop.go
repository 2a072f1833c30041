package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/tripwit/internal/domain"
	"github.com/pkordes/tripwit/internal/itinerary"
	"github.com/pkordes/tripwit/internal/repo"
)

// StopService implements business logic for Stop operations.
// Every call is addressed by trip and day; the day is looked up under the
// trip first so a stop can never be reached through a foreign trip.
type StopService struct {
	days   repo.DayRepo
	stops  repo.StopRepo
	photos repo.PhotoRepo
}

// NewStopService constructs a StopService backed by the provided repos.
func NewStopService(days repo.DayRepo, stops repo.StopRepo, photos repo.PhotoRepo) *StopService {
	return &StopService{days: days, stops: stops, photos: photos}
}

// Create validates the stop, verifies its day belongs to tripID, then appends
// it to the end of the day.
// Returns domain.ErrValidation if input violates business rules.
// Returns domain.ErrNotFound if the day does not exist under the trip.
func (s *StopService) Create(ctx context.Context, tripID uuid.UUID, stop domain.Stop) (domain.Stop, error) {
	if _, err := s.days.GetByID(ctx, tripID, stop.DayID); err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	if err := validateStop(&stop); err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	result, err := s.stops.Create(ctx, stop)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single stop with its matched photos.
// Returns domain.ErrNotFound if the stop is not under that trip and day.
func (s *StopService) GetByID(ctx context.Context, tripID, dayID, stopID uuid.UUID) (domain.Stop, error) {
	if _, err := s.days.GetByID(ctx, tripID, dayID); err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.GetByID: %w", err)
	}
	stop, err := s.stops.GetByID(ctx, dayID, stopID)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.GetByID: %w", err)
	}
	photos, err := s.photos.ListByStopID(ctx, stopID)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.GetByID: %w", err)
	}
	stop.MatchedPhotos = photos
	return stop, nil
}

// ListByDayID returns the stops of one day in sort order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *StopService) ListByDayID(ctx context.Context, tripID, dayID uuid.UUID) ([]domain.Stop, error) {
	if _, err := s.days.GetByID(ctx, tripID, dayID); err != nil {
		return nil, fmt.Errorf("service.StopService.ListByDayID: %w", err)
	}
	stops, err := s.stops.ListByDayID(ctx, dayID)
	if err != nil {
		return nil, fmt.Errorf("service.StopService.ListByDayID: %w", err)
	}
	if stops == nil {
		return []domain.Stop{}, nil
	}
	return stops, nil
}

// Update validates and persists changes to an existing stop. The stop stays
// on its day; moving between days is not supported.
// Returns domain.ErrValidation for invalid input, domain.ErrNotFound if the
// stop does not exist under the given trip and day.
func (s *StopService) Update(ctx context.Context, tripID uuid.UUID, stop domain.Stop) (domain.Stop, error) {
	if _, err := s.days.GetByID(ctx, tripID, stop.DayID); err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w", err)
	}
	if err := validateStop(&stop); err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w", err)
	}
	result, err := s.stops.Update(ctx, stop)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a stop. Photos matched to it become unmatched.
// Returns domain.ErrNotFound if the stop does not exist under the given trip
// and day.
func (s *StopService) Delete(ctx context.Context, tripID, dayID, stopID uuid.UUID) error {
	if _, err := s.days.GetByID(ctx, tripID, dayID); err != nil {
		return fmt.Errorf("service.StopService.Delete: %w", err)
	}
	if err := s.stops.Delete(ctx, dayID, stopID); err != nil {
		return fmt.Errorf("service.StopService.Delete: %w", err)
	}
	return nil
}

// Reorder moves the stop at position from to position to within the day and
// returns the day's stops in their new order. Out-of-range positions leave
// the day unchanged and nothing is written. Concurrent reorders of the same
// day are applied one after the other.
func (s *StopService) Reorder(ctx context.Context, tripID, dayID uuid.UUID, from, to int) ([]domain.Stop, error) {
	if _, err := s.days.GetByID(ctx, tripID, dayID); err != nil {
		return nil, fmt.Errorf("service.StopService.Reorder: %w", err)
	}
	stops, err := s.stops.Reorder(ctx, dayID, func(stops []domain.Stop) bool {
		return itinerary.ReorderStops(stops, from, to)
	})
	if err != nil {
		return nil, fmt.Errorf("service.StopService.Reorder: %w", err)
	}
	if stops == nil {
		return []domain.Stop{}, nil
	}
	return stops, nil
}

// validateStop enforces business rules common to both Create and Update.
// It trims the name and fills in the default category in place.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - Location must be a valid coordinate.
//   - Category must be a known label.
//   - DepartureTime, if set together with ArrivalTime, must not be before it.
func validateStop(stop *domain.Stop) error {
	stop.Name = strings.TrimSpace(stop.Name)
	if stop.Name == "" {
		return domain.Invalidf("name is required")
	}
	if !stop.Location.Valid() {
		return domain.Invalidf("latitude must be in [-90, 90] and longitude in [-180, 180]")
	}
	cat, err := domain.ParseStopCategory(string(stop.Category))
	if err != nil {
		return err
	}
	stop.Category = cat
	if stop.ArrivalTime != nil && stop.DepartureTime != nil && stop.DepartureTime.Before(*stop.ArrivalTime) {
		return domain.Invalidf("departure_time must not be before arrival_time")
	}
	return nil
}
