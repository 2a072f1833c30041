package handler

import (
	"net/http"

	"github.com/google/uuid"
)

// tripDay binds the tripId and dayId path parameters shared by every stop route.
func tripDay(w http.ResponseWriter, r *http.Request) (tripID, dayID uuid.UUID, ok bool) {
	if tripID, ok = pathUUID(w, r, "tripId"); !ok {
		return
	}
	dayID, ok = pathUUID(w, r, "dayId")
	return
}

// CreateStop handles POST /trips/{tripId}/days/{dayId}/stops.
// The stop is appended to the end of the day.
func (s *Server) CreateStop(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := tripDay(w, r)
	if !ok {
		return
	}
	var body StopRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.stops.Create(r.Context(), tripID, body.toDomain(dayID, uuid.Nil))
	if err != nil {
		writeServiceError(w, r, err, "day not found")
		return
	}
	writeJSON(w, http.StatusCreated, stopToResponse(created))
}

// ListStops handles GET /trips/{tripId}/days/{dayId}/stops.
func (s *Server) ListStops(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := tripDay(w, r)
	if !ok {
		return
	}

	stops, err := s.stops.ListByDayID(r.Context(), tripID, dayID)
	if err != nil {
		writeServiceError(w, r, err, "day not found")
		return
	}
	writeJSON(w, http.StatusOK, stopsToResponse(stops))
}

// GetStop handles GET /trips/{tripId}/days/{dayId}/stops/{stopId}.
func (s *Server) GetStop(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := tripDay(w, r)
	if !ok {
		return
	}
	stopID, ok := pathUUID(w, r, "stopId")
	if !ok {
		return
	}

	stop, err := s.stops.GetByID(r.Context(), tripID, dayID, stopID)
	if err != nil {
		writeServiceError(w, r, err, "stop not found")
		return
	}
	writeJSON(w, http.StatusOK, stopToResponse(stop))
}

// UpdateStop handles PUT /trips/{tripId}/days/{dayId}/stops/{stopId}.
func (s *Server) UpdateStop(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := tripDay(w, r)
	if !ok {
		return
	}
	stopID, ok := pathUUID(w, r, "stopId")
	if !ok {
		return
	}
	var body StopRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.stops.Update(r.Context(), tripID, body.toDomain(dayID, stopID))
	if err != nil {
		writeServiceError(w, r, err, "stop not found")
		return
	}
	writeJSON(w, http.StatusOK, stopToResponse(updated))
}

// DeleteStop handles DELETE /trips/{tripId}/days/{dayId}/stops/{stopId}.
func (s *Server) DeleteStop(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := tripDay(w, r)
	if !ok {
		return
	}
	stopID, ok := pathUUID(w, r, "stopId")
	if !ok {
		return
	}

	if err := s.stops.Delete(r.Context(), tripID, dayID, stopID); err != nil {
		writeServiceError(w, r, err, "stop not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderStops handles POST /trips/{tripId}/days/{dayId}/stops/reorder.
// Positions outside the day are ignored and the current order is returned.
func (s *Server) ReorderStops(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := tripDay(w, r)
	if !ok {
		return
	}
	var body ReorderRequest
	if !decodeBody(w, r, &body) {
		return
	}

	stops, err := s.stops.Reorder(r.Context(), tripID, dayID, *body.From, *body.To)
	if err != nil {
		writeServiceError(w, r, err, "day not found")
		return
	}
	writeJSON(w, http.StatusOK, stopsToResponse(stops))
}
