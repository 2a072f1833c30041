// Package service contains the business logic for the TripWit API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripwit/internal/domain"
	"github.com/pkordes/tripwit/internal/geo"
	"github.com/pkordes/tripwit/internal/itinerary"
	"github.com/pkordes/tripwit/internal/repo"
)

// TripObserver is notified of trip lifecycle events. *metrics.Collector
// satisfies it.
type TripObserver interface {
	TripCreated()
}

// TripReport is the computed overview of a trip.
type TripReport struct {
	Stats domain.TripStats
	// Status is derived from today's date, not the stored label.
	Status       domain.TripStatus
	DurationDays int
}

// TripService implements business logic for Trip operations.
// It owns day generation: days are created with the trip and reconciled
// whenever the trip's date range changes.
type TripService struct {
	trips    repo.TripRepo
	days     repo.DayRepo
	stops    repo.StopRepo
	photos   repo.PhotoRepo
	engine   *itinerary.Engine
	observer TripObserver
	now      func() time.Time
}

// NewTripService constructs a TripService. observer may be nil.
func NewTripService(
	trips repo.TripRepo,
	days repo.DayRepo,
	stops repo.StopRepo,
	photos repo.PhotoRepo,
	engine *itinerary.Engine,
	observer TripObserver,
) *TripService {
	return &TripService{
		trips:    trips,
		days:     days,
		stops:    stops,
		photos:   photos,
		engine:   engine,
		observer: observer,
		now:      time.Now,
	}
}

// SetClock replaces the time source used for derived status. Tests only.
func (s *TripService) SetClock(now func() time.Time) { s.now = now }

// Create validates a new trip, generates one day per calendar day of its
// range and persists both. An empty Status is derived from the dates.
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip.StartDate = s.engine.Localize(trip.StartDate)
	trip.EndDate = s.engine.Localize(trip.EndDate)
	if err := validateTrip(&trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	if trip.Status == "" {
		trip.Status = s.engine.StatusAt(trip, s.now())
	}

	trip.ID = uuid.New()
	days := s.engine.GenerateDays(trip)

	result, err := s.trips.Create(ctx, trip, days)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	if s.observer != nil {
		s.observer.TripCreated()
	}
	s.engine.LocalizeTrip(&result)
	return result, nil
}

// GetByID returns the full trip graph: the trip, its days in date order, each
// day's stops in sort order, and each stop's matched photos.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	days, err := s.days.ListByTripID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	stops, err := s.stops.ListByTripID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	photos, err := s.photos.ListByTripID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}

	trip.Days = assemble(days, stops, photos)
	s.engine.LocalizeTrip(&trip)
	return trip, nil
}

// assemble nests photos under their stops and stops under their days.
// Input order is preserved within each parent. Photos with no stop are dropped.
func assemble(days []domain.Day, stops []domain.Stop, photos []domain.MatchedPhoto) []domain.Day {
	photosByStop := make(map[uuid.UUID][]domain.MatchedPhoto)
	for _, p := range photos {
		if p.MatchedStopID != nil {
			photosByStop[*p.MatchedStopID] = append(photosByStop[*p.MatchedStopID], p)
		}
	}

	stopsByDay := make(map[uuid.UUID][]domain.Stop)
	for _, st := range stops {
		st.MatchedPhotos = photosByStop[st.ID]
		stopsByDay[st.DayID] = append(stopsByDay[st.DayID], st)
	}

	out := make([]domain.Day, len(days))
	for i, d := range days {
		d.Stops = stopsByDay[d.ID]
		out[i] = d
	}
	return out
}

// ListPaged returns one page of trips, without days, and the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	for i := range trips {
		s.engine.LocalizeTrip(&trips[i])
	}
	return trips, total, nil
}

// Update validates and persists changes to an existing trip. Days that fall
// outside the new range are removed with their stops, days for newly covered
// dates are added, and every day is renumbered. Days whose date survives keep
// their ID, notes and stops. An empty Status keeps the stored one.
//
// The stored days are compared with the requested range on every call, not
// only when the dates change, and the trip row and its days are written in
// one transaction.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip.StartDate = s.engine.Localize(trip.StartDate)
	trip.EndDate = s.engine.Localize(trip.EndDate)
	if err := validateTrip(&trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	existing, err := s.trips.GetByID(ctx, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if trip.Status == "" {
		trip.Status = existing.Status
	}

	sync, final, changed, err := s.planDays(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	var result domain.Trip
	if changed {
		result, err = s.trips.UpdateWithDays(ctx, trip, sync, final)
	} else {
		result, err = s.trips.Update(ctx, trip)
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	s.engine.LocalizeTrip(&result)
	return result, nil
}

// planDays reconciles the stored days of trip with its date range. final is
// the numbered list of days the trip should end up with. changed is false when
// the stored days already match it.
func (s *TripService) planDays(ctx context.Context, trip domain.Trip) (sync domain.DaySyncResult, final []domain.Day, changed bool, err error) {
	existing, err := s.days.ListByTripID(ctx, trip.ID)
	if err != nil {
		return domain.DaySyncResult{}, nil, false, err
	}

	numbers := make(map[uuid.UUID]int, len(existing))
	for i := range existing {
		existing[i].Date = s.engine.Localize(existing[i].Date)
		numbers[existing[i].ID] = existing[i].DayNumber
	}

	sync = s.engine.SyncDays(trip.StartDate, trip.EndDate, existing)

	final = make([]domain.Day, 0, sync.KeepDayIDs.Len()+len(sync.DatesToAdd))
	for _, d := range existing {
		if sync.KeepDayIDs.Has(d.ID) {
			final = append(final, d)
		}
	}
	for _, date := range sync.DatesToAdd {
		final = append(final, domain.Day{ID: uuid.New(), TripID: trip.ID, Date: date})
	}
	s.engine.RenumberDays(final)

	changed = sync.RemoveDayIDs.Len() > 0 || len(sync.DatesToAdd) > 0
	for _, d := range final {
		if n, ok := numbers[d.ID]; ok && n != d.DayNumber {
			changed = true
		}
	}
	return sync, final, changed, nil
}

// Delete removes a trip and everything under it.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Stats aggregates the trip's stops, photos and travel distance, and derives
// its lifecycle status from the current date.
func (s *TripService) Stats(ctx context.Context, id uuid.UUID) (TripReport, error) {
	trip, err := s.GetByID(ctx, id)
	if err != nil {
		return TripReport{}, fmt.Errorf("service.TripService.Stats: %w", err)
	}
	return TripReport{
		Stats:        itinerary.Stats(trip),
		Status:       s.engine.StatusAt(trip, s.now()),
		DurationDays: s.engine.DurationInDays(trip),
	}, nil
}

// Status derives the trip's lifecycle status from its dates and the current
// time, ignoring the stored label.
func (s *TripService) Status(ctx context.Context, id uuid.UUID) (domain.TripStatus, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("service.TripService.Status: %w", err)
	}
	s.engine.LocalizeTrip(&trip)
	return s.engine.StatusAt(trip, s.now()), nil
}

// Center returns the geographic center of all the trip's stops.
// Returns domain.ErrNotFound if the trip does not exist or has no stops.
func (s *TripService) Center(ctx context.Context, id uuid.UUID) (domain.GeoPoint, error) {
	trip, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("service.TripService.Center: %w", err)
	}

	stops := trip.AllStops()
	points := make([]domain.GeoPoint, len(stops))
	for i, st := range stops {
		points[i] = st.Location
	}

	center, ok := geo.CenterPoint(points)
	if !ok {
		return domain.GeoPoint{}, fmt.Errorf("service.TripService.Center: trip has no stops: %w", domain.ErrNotFound)
	}
	return center, nil
}

// validateTrip enforces business rules common to both Create and Update.
// It trims the name in place.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - EndDate must not be before StartDate.
//   - Status, if set, must be a known label.
func validateTrip(trip *domain.Trip) error {
	trip.Name = strings.TrimSpace(trip.Name)
	if trip.Name == "" {
		return domain.Invalidf("name is required")
	}
	if trip.StartDate.IsZero() || trip.EndDate.IsZero() {
		return domain.Invalidf("start_date and end_date are required")
	}
	if trip.EndDate.Before(trip.StartDate) {
		return domain.Invalidf("end_date must not be before start_date")
	}
	if trip.Status != "" {
		if _, err := domain.ParseTripStatus(string(trip.Status)); err != nil {
			return err
		}
	}
	return nil
}
