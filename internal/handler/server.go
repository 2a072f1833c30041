// Package handler implements the HTTP handlers for the TripWit API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripwit/internal/domain"
	"github.com/pkordes/tripwit/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, id uuid.UUID) (service.TripReport, error)
	Status(ctx context.Context, id uuid.UUID) (domain.TripStatus, error)
	Center(ctx context.Context, id uuid.UUID) (domain.GeoPoint, error)
}

// StopServicer defines the business operations the stop handlers depend on.
type StopServicer interface {
	Create(ctx context.Context, tripID uuid.UUID, stop domain.Stop) (domain.Stop, error)
	GetByID(ctx context.Context, tripID, dayID, stopID uuid.UUID) (domain.Stop, error)
	ListByDayID(ctx context.Context, tripID, dayID uuid.UUID) ([]domain.Stop, error)
	Update(ctx context.Context, tripID uuid.UUID, stop domain.Stop) (domain.Stop, error)
	Delete(ctx context.Context, tripID, dayID, stopID uuid.UUID) error
	Reorder(ctx context.Context, tripID, dayID uuid.UUID, from, to int) ([]domain.Stop, error)
}

// PhotoServicer defines the business operations the photo handlers depend on.
type PhotoServicer interface {
	Match(ctx context.Context, tripID uuid.UUID, photos []domain.PhotoMetadata) (service.MatchReport, error)
	ListByStopID(ctx context.Context, tripID, dayID, stopID uuid.UUID) ([]domain.MatchedPhoto, error)
	Assign(ctx context.Context, tripID, photoID uuid.UUID, stopID *uuid.UUID) (domain.MatchedPhoto, error)
}

// MapServicer renders map overlays for a trip.
type MapServicer interface {
	GeoJSON(ctx context.Context, tripID uuid.UUID) ([]byte, error)
	KML(ctx context.Context, tripID uuid.UUID) ([]byte, error)
}

// Server holds the services every handler needs.
// Wire it in main.go via NewRouter(server, metricsHandler).
type Server struct {
	trips  TripServicer
	stops  StopServicer
	photos PhotoServicer
	maps   MapServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, stops StopServicer, photos PhotoServicer, maps MapServicer) *Server {
	return &Server{trips: trips, stops: stops, photos: photos, maps: maps}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// NewRouter mounts every API route on a chi router. metrics, when non-nil,
// is served at GET /metrics. Cross-cutting middleware is applied by the caller.
func NewRouter(s *Server, metrics http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)

		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Get("/stats", s.GetTripStats)
			r.Get("/status", s.GetTripStatus)
			r.Get("/center", s.GetTripCenter)
			r.Get("/map.geojson", s.GetTripGeoJSON)
			r.Get("/map.kml", s.GetTripKML)

			r.Post("/photos/match", s.MatchPhotos)
			r.Put("/photos/{photoId}/assignment", s.AssignPhoto)

			r.Route("/days/{dayId}/stops", func(r chi.Router) {
				r.Post("/", s.CreateStop)
				r.Get("/", s.ListStops)
				r.Post("/reorder", s.ReorderStops)

				r.Route("/{stopId}", func(r chi.Router) {
					r.Get("/", s.GetStop)
					r.Put("/", s.UpdateStop)
					r.Delete("/", s.DeleteStop)
					r.Get("/photos", s.ListStopPhotos)
				})
			})
		})
	})

	return r
}
