package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// CreateTrip handles POST /trips.
// The trip's days are generated from its date range.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.trips.Create(r.Context(), body.toDomain(uuid.Nil))
	if err != nil {
		writeServiceError(w, r, err, "trip not found")
		return
	}

	w.Header().Set("Location", "/trips/"+created.ID.String())
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
// The total is also sent in the X-Total-Count header.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params, ok := paginationParams(w, r)
	if !ok {
		return
	}

	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err, "trip not found")
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	page := Pagination{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: params.TotalPages(total),
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	writeJSON(w, http.StatusOK, TripList{Data: data, Pagination: page})
}

// GetTrip handles GET /trips/{tripId}.
// The response nests days, their stops and each stop's matched photos.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{tripId}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.trips.Update(r.Context(), body.toDomain(id))
	if err != nil {
		writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripId}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTripStats handles GET /trips/{tripId}/stats.
func (s *Server) GetTripStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	report, err := s.trips.Stats(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, statsToResponse(report))
}

// GetTripStatus handles GET /trips/{tripId}/status.
func (s *Server) GetTripStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	status, err := s.trips.Status(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, TripStatus{Status: string(status)})
}

// GetTripCenter handles GET /trips/{tripId}/center.
// A trip without stops has no center and yields 404.
func (s *Server) GetTripCenter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	center, err := s.trips.Center(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "trip not found or has no stops")
		return
	}
	writeJSON(w, http.StatusOK, GeoPoint{Latitude: center.Latitude, Longitude: center.Longitude})
}
