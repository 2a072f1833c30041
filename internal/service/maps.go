package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tripwit/internal/domain"
	"github.com/pkordes/tripwit/internal/mapview"
)

// TripLoader loads a full trip graph. *TripService satisfies it.
type TripLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
}

// MapService renders a trip as map overlays for map screens and desktop
// mapping tools.
type MapService struct {
	trips TripLoader
}

// NewMapService constructs a MapService that loads trips through trips.
func NewMapService(trips TripLoader) *MapService {
	return &MapService{trips: trips}
}

// GeoJSON returns the trip's stops and daily routes as a GeoJSON
// FeatureCollection.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *MapService) GeoJSON(ctx context.Context, tripID uuid.UUID) ([]byte, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.MapService.GeoJSON: %w", err)
	}
	b, err := mapview.GeoJSON(trip)
	if err != nil {
		return nil, fmt.Errorf("service.MapService.GeoJSON: %w", err)
	}
	return b, nil
}

// KML returns the trip as a KML document with one folder per day.
// The document is rendered fully before it is returned so a failure never
// leaves a half-written response.
func (s *MapService) KML(ctx context.Context, tripID uuid.UUID) ([]byte, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.MapService.KML: %w", err)
	}
	var buf bytes.Buffer
	if err := mapview.KML(trip, &buf); err != nil {
		return nil, fmt.Errorf("service.MapService.KML: %w", err)
	}
	return buf.Bytes(), nil
}
