package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type renderFunc func(ctx context.Context, tripID uuid.UUID) ([]byte, error)

// GetTripGeoJSON handles GET /trips/{tripId}/map.geojson.
func (s *Server) GetTripGeoJSON(w http.ResponseWriter, r *http.Request) {
	s.writeOverlay(w, r, "application/geo+json", "", s.maps.GeoJSON)
}

// GetTripKML handles GET /trips/{tripId}/map.kml.
// The response is offered as a download named after the trip ID.
func (s *Server) GetTripKML(w http.ResponseWriter, r *http.Request) {
	s.writeOverlay(w, r, "application/vnd.google-earth.kml+xml", ".kml", s.maps.KML)
}

// writeOverlay renders an overlay for the trip in the path. A non-empty ext
// marks the response as an attachment named trip-<id><ext>.
func (s *Server) writeOverlay(w http.ResponseWriter, r *http.Request, contentType, ext string, render renderFunc) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	b, err := render(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "trip not found")
		return
	}

	w.Header().Set("Content-Type", contentType)
	if ext != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="trip-`+id.String()+ext+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
