package handler

import (
	"math"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripwit/internal/domain"
	"github.com/pkordes/tripwit/internal/service"
)

// ---- requests ----------------------------------------------------------------

// TripRequest is the body of POST /trips and PUT /trips/{tripId}.
// An omitted status is derived from the dates on create and kept on update.
type TripRequest struct {
	Name              string              `json:"name" validate:"required,max=200"`
	Destination       string              `json:"destination" validate:"max=200"`
	StartDate         *openapi_types.Date `json:"start_date" validate:"required"`
	EndDate           *openapi_types.Date `json:"end_date" validate:"required"`
	Status            string              `json:"status" validate:"omitempty,oneof=planning active completed"`
	CoverPhotoAssetID *string             `json:"cover_photo_asset_id" validate:"omitempty,max=512"`
	Notes             string              `json:"notes" validate:"max=5000"`
}

func (b TripRequest) toDomain(id openapi_types.UUID) domain.Trip {
	return domain.Trip{
		ID:                id,
		Name:              b.Name,
		Destination:       b.Destination,
		StartDate:         b.StartDate.Time,
		EndDate:           b.EndDate.Time,
		Status:            domain.TripStatus(b.Status),
		CoverPhotoAssetID: b.CoverPhotoAssetID,
		Notes:             b.Notes,
	}
}

// StopRequest is the body of POST and PUT on a day's stops.
type StopRequest struct {
	Name          string     `json:"name" validate:"required,max=200"`
	Latitude      *float64   `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude     *float64   `json:"longitude" validate:"required,gte=-180,lte=180"`
	ArrivalTime   *time.Time `json:"arrival_time"`
	DepartureTime *time.Time `json:"departure_time"`
	Category      string     `json:"category" validate:"omitempty,oneof=accommodation restaurant attraction transport activity other"`
	Notes         string     `json:"notes" validate:"max=5000"`
}

func (b StopRequest) toDomain(dayID, stopID openapi_types.UUID) domain.Stop {
	return domain.Stop{
		ID:            stopID,
		DayID:         dayID,
		Name:          b.Name,
		Location:      domain.GeoPoint{Latitude: *b.Latitude, Longitude: *b.Longitude},
		ArrivalTime:   b.ArrivalTime,
		DepartureTime: b.DepartureTime,
		Category:      domain.StopCategory(b.Category),
		Notes:         b.Notes,
	}
}

// ReorderRequest moves the stop at position From to position To.
type ReorderRequest struct {
	From *int `json:"from" validate:"required"`
	To   *int `json:"to" validate:"required"`
}

// PhotoInput is one photo submitted for matching.
type PhotoInput struct {
	AssetIdentifier string     `json:"asset_identifier" validate:"required,max=512"`
	Latitude        *float64   `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude       *float64   `json:"longitude" validate:"required,gte=-180,lte=180"`
	CaptureDate     *time.Time `json:"capture_date" validate:"required"`
}

// PhotoMatchRequest is the body of POST /trips/{tripId}/photos/match.
type PhotoMatchRequest struct {
	Photos []PhotoInput `json:"photos" validate:"required,min=1,max=1000,dive"`
}

func (b PhotoMatchRequest) toDomain() []domain.PhotoMetadata {
	out := make([]domain.PhotoMetadata, len(b.Photos))
	for i, p := range b.Photos {
		out[i] = domain.PhotoMetadata{
			AssetIdentifier: p.AssetIdentifier,
			Location:        domain.GeoPoint{Latitude: *p.Latitude, Longitude: *p.Longitude},
			CaptureDate:     *p.CaptureDate,
		}
	}
	return out
}

// AssignmentRequest is the body of PUT /trips/{tripId}/photos/{photoId}/assignment.
// A null stop_id clears the match.
type AssignmentRequest struct {
	StopID *openapi_types.UUID `json:"stop_id"`
}

// ---- responses ---------------------------------------------------------------

// Trip is the JSON representation of a trip. Days are only present on
// single-trip reads.
type Trip struct {
	ID                openapi_types.UUID `json:"id"`
	Name              string             `json:"name"`
	Destination       string             `json:"destination,omitempty"`
	StartDate         openapi_types.Date `json:"start_date"`
	EndDate           openapi_types.Date `json:"end_date"`
	Status            string             `json:"status"`
	CoverPhotoAssetID *string            `json:"cover_photo_asset_id,omitempty"`
	Notes             string             `json:"notes,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	Days              []Day              `json:"days,omitempty"`
}

// Day is the JSON representation of one day of a trip.
type Day struct {
	ID        openapi_types.UUID `json:"id"`
	Date      openapi_types.Date `json:"date"`
	DayNumber int                `json:"day_number"`
	Notes     string             `json:"notes,omitempty"`
	Stops     []Stop             `json:"stops"`
}

// Stop is the JSON representation of a stop.
type Stop struct {
	ID            openapi_types.UUID `json:"id"`
	DayID         openapi_types.UUID `json:"day_id"`
	Name          string             `json:"name"`
	Latitude      float64            `json:"latitude"`
	Longitude     float64            `json:"longitude"`
	ArrivalTime   *time.Time         `json:"arrival_time,omitempty"`
	DepartureTime *time.Time         `json:"departure_time,omitempty"`
	Category      string             `json:"category"`
	Notes         string             `json:"notes,omitempty"`
	SortOrder     int                `json:"sort_order"`
	MatchedPhotos []Photo            `json:"matched_photos,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Photo is the JSON representation of a stored photo match.
type Photo struct {
	ID                 openapi_types.UUID  `json:"id"`
	AssetIdentifier    string              `json:"asset_identifier"`
	Latitude           float64             `json:"latitude"`
	Longitude          float64             `json:"longitude"`
	CaptureDate        time.Time           `json:"capture_date"`
	MatchConfidence    string              `json:"match_confidence"`
	MatchedStopID      *openapi_types.UUID `json:"matched_stop_id"`
	IsManuallyAssigned bool                `json:"is_manually_assigned"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// TripStats is the body of GET /trips/{tripId}/stats.
type TripStats struct {
	TotalStops      int                    `json:"total_stops"`
	TotalPhotos     int                    `json:"total_photos"`
	TotalDistanceKm float64                `json:"total_distance_km"`
	CategoryCounts  []domain.CategoryCount `json:"category_counts"`
	Status          string                 `json:"status"`
	DurationDays    int                    `json:"duration_days"`
}

// TripStatus is the body of GET /trips/{tripId}/status.
type TripStatus struct {
	Status string `json:"status"`
}

// GeoPoint is the body of GET /trips/{tripId}/center.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MatchResult is one entry of a photo matching response.
// DistanceMeters is null when the trip has no stops to compare against.
type MatchResult struct {
	Photo           Photo    `json:"photo"`
	MatchedStopName string   `json:"matched_stop_name,omitempty"`
	DistanceMeters  *float64 `json:"distance_meters"`
}

// MatchResponse is the body of POST /trips/{tripId}/photos/match.
type MatchResponse struct {
	Results   []MatchResult `json:"results"`
	Matched   int           `json:"matched"`
	Unmatched int           `json:"unmatched"`
}

// ---- mapping -------------------------------------------------------------------

func tripToResponse(t domain.Trip) Trip {
	resp := Trip{
		ID:                t.ID,
		Name:              t.Name,
		Destination:       t.Destination,
		StartDate:         openapi_types.Date{Time: t.StartDate},
		EndDate:           openapi_types.Date{Time: t.EndDate},
		Status:            string(t.Status),
		CoverPhotoAssetID: t.CoverPhotoAssetID,
		Notes:             t.Notes,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
	if len(t.Days) > 0 {
		resp.Days = make([]Day, len(t.Days))
		for i, d := range t.Days {
			resp.Days[i] = dayToResponse(d)
		}
	}
	return resp
}

func dayToResponse(d domain.Day) Day {
	resp := Day{
		ID:        d.ID,
		Date:      openapi_types.Date{Time: d.Date},
		DayNumber: d.DayNumber,
		Notes:     d.Notes,
		Stops:     make([]Stop, len(d.Stops)),
	}
	for i, s := range d.Stops {
		resp.Stops[i] = stopToResponse(s)
	}
	return resp
}

func stopToResponse(s domain.Stop) Stop {
	resp := Stop{
		ID:            s.ID,
		DayID:         s.DayID,
		Name:          s.Name,
		Latitude:      s.Location.Latitude,
		Longitude:     s.Location.Longitude,
		ArrivalTime:   s.ArrivalTime,
		DepartureTime: s.DepartureTime,
		Category:      string(s.Category),
		Notes:         s.Notes,
		SortOrder:     s.SortOrder,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if len(s.MatchedPhotos) > 0 {
		resp.MatchedPhotos = photosToResponse(s.MatchedPhotos)
	}
	return resp
}

func stopsToResponse(stops []domain.Stop) []Stop {
	out := make([]Stop, len(stops))
	for i, s := range stops {
		out[i] = stopToResponse(s)
	}
	return out
}

func photoToResponse(p domain.MatchedPhoto) Photo {
	return Photo{
		ID:                 p.ID,
		AssetIdentifier:    p.AssetIdentifier,
		Latitude:           p.Location.Latitude,
		Longitude:          p.Location.Longitude,
		CaptureDate:        p.CaptureDate,
		MatchConfidence:    string(p.MatchConfidence),
		MatchedStopID:      p.MatchedStopID,
		IsManuallyAssigned: p.IsManuallyAssigned,
	}
}

func photosToResponse(photos []domain.MatchedPhoto) []Photo {
	out := make([]Photo, len(photos))
	for i, p := range photos {
		out[i] = photoToResponse(p)
	}
	return out
}

func statsToResponse(r service.TripReport) TripStats {
	return TripStats{
		TotalStops:      r.Stats.TotalStops,
		TotalPhotos:     r.Stats.TotalPhotos,
		TotalDistanceKm: r.Stats.TotalDistanceKm,
		CategoryCounts:  r.Stats.SortedCategories(),
		Status:          string(r.Status),
		DurationDays:    r.DurationDays,
	}
}

func matchToResponse(report service.MatchReport) MatchResponse {
	resp := MatchResponse{Results: make([]MatchResult, len(report.Results))}
	for i, r := range report.Results {
		mr := MatchResult{Photo: photoToResponse(report.Photos[i])}
		if !math.IsInf(r.DistanceMeters, 0) {
			d := r.DistanceMeters
			mr.DistanceMeters = &d
		}
		if r.MatchedStop != nil {
			mr.MatchedStopName = r.MatchedStop.Name
			resp.Matched++
		} else {
			resp.Unmatched++
		}
		resp.Results[i] = mr
	}
	return resp
}
