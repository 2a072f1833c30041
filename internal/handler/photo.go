package handler

import (
	"net/http"
)

// MatchPhotos handles POST /trips/{tripId}/photos/match.
// Every submitted photo is stored, matched or not, and returned in
// submission order.
func (s *Server) MatchPhotos(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body PhotoMatchRequest
	if !decodeBody(w, r, &body) {
		return
	}

	report, err := s.photos.Match(r.Context(), tripID, body.toDomain())
	if err != nil {
		writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, matchToResponse(report))
}

// ListStopPhotos handles GET /trips/{tripId}/days/{dayId}/stops/{stopId}/photos.
func (s *Server) ListStopPhotos(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := tripDay(w, r)
	if !ok {
		return
	}
	stopID, ok := pathUUID(w, r, "stopId")
	if !ok {
		return
	}

	photos, err := s.photos.ListByStopID(r.Context(), tripID, dayID, stopID)
	if err != nil {
		writeServiceError(w, r, err, "stop not found")
		return
	}
	writeJSON(w, http.StatusOK, photosToResponse(photos))
}

// AssignPhoto handles PUT /trips/{tripId}/photos/{photoId}/assignment.
// A null stop_id clears the match.
func (s *Server) AssignPhoto(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	photoID, ok := pathUUID(w, r, "photoId")
	if !ok {
		return
	}
	var body AssignmentRequest
	if !decodeBody(w, r, &body) {
		return
	}

	photo, err := s.photos.Assign(r.Context(), tripID, photoID, body.StopID)
	if err != nil {
		writeServiceError(w, r, err, "photo or stop not found")
		return
	}
	writeJSON(w, http.StatusOK, photoToResponse(photo))
}
