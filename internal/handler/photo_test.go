package handler_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripwit/internal/domain"
	"github.com/pkordes/tripwit/internal/handler"
	"github.com/pkordes/tripwit/internal/service"
)

// mockPhotoServicer is a test double for handler.PhotoServicer.
type mockPhotoServicer struct {
	match        func(ctx context.Context, tripID uuid.UUID, photos []domain.PhotoMetadata) (service.MatchReport, error)
	listByStopID func(ctx context.Context, tripID, dayID, stopID uuid.UUID) ([]domain.MatchedPhoto, error)
	assign       func(ctx context.Context, tripID, photoID uuid.UUID, stopID *uuid.UUID) (domain.MatchedPhoto, error)
}

func (m *mockPhotoServicer) Match(ctx context.Context, tripID uuid.UUID, photos []domain.PhotoMetadata) (service.MatchReport, error) {
	return m.match(ctx, tripID, photos)
}
func (m *mockPhotoServicer) ListByStopID(ctx context.Context, tripID, dayID, stopID uuid.UUID) ([]domain.MatchedPhoto, error) {
	return m.listByStopID(ctx, tripID, dayID, stopID)
}
func (m *mockPhotoServicer) Assign(ctx context.Context, tripID, photoID uuid.UUID, stopID *uuid.UUID) (domain.MatchedPhoto, error) {
	return m.assign(ctx, tripID, photoID, stopID)
}

// compile-time check: mockPhotoServicer must satisfy handler.PhotoServicer.
var _ handler.PhotoServicer = (*mockPhotoServicer)(nil)

// ---- POST /trips/{tripId}/photos/match -------------------------------------

func TestMatchPhotos_200(t *testing.T) {
	tripID := uuid.New()
	stop := domain.Stop{ID: uuid.New(), Name: "Palais"}
	captured := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)

	svc := &mockPhotoServicer{
		match: func(_ context.Context, gotTrip uuid.UUID, photos []domain.PhotoMetadata) (service.MatchReport, error) {
			assert.Equal(t, tripID, gotTrip)
			require.Len(t, photos, 2)
			assert.Equal(t, "IMG_1", photos[0].AssetIdentifier)
			assert.True(t, photos[0].CaptureDate.Equal(captured))

			return service.MatchReport{
				Results: []domain.PhotoMatchResult{
					{Photo: photos[0], MatchedStop: &stop, Confidence: domain.ConfidenceHigh, DistanceMeters: 12.5},
					{Photo: photos[1], Confidence: domain.ConfidenceLow, DistanceMeters: math.Inf(1)},
				},
				Photos: []domain.MatchedPhoto{
					{ID: uuid.New(), AssetIdentifier: "IMG_1", MatchConfidence: domain.ConfidenceHigh, MatchedStopID: &stop.ID},
					{ID: uuid.New(), AssetIdentifier: "IMG_2", MatchConfidence: domain.ConfidenceLow},
				},
			}, nil
		},
	}

	body := jsonBody(t, map[string]any{"photos": []map[string]any{
		{"asset_identifier": "IMG_1", "latitude": 43.95, "longitude": 4.81, "capture_date": "2026-06-01T09:30:00Z"},
		{"asset_identifier": "IMG_2", "latitude": 48.85, "longitude": 2.35, "capture_date": "2026-06-01T11:00:00Z"},
	}})

	rec := serve(newHTTPHandler(services{photos: svc}), http.MethodPost, "/trips/"+tripID.String()+"/photos/match", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.MatchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Matched)
	assert.Equal(t, 1, resp.Unmatched)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Palais", resp.Results[0].MatchedStopName)
	require.NotNil(t, resp.Results[0].DistanceMeters)
	assert.Equal(t, 12.5, *resp.Results[0].DistanceMeters)
	assert.Nil(t, resp.Results[1].DistanceMeters, "an infinite distance is sent as null")
	assert.Nil(t, resp.Results[1].Photo.MatchedStopID)
}

func TestMatchPhotos_422(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"no photos", map[string]any{"photos": []map[string]any{}}},
		{"missing capture date", map[string]any{"photos": []map[string]any{
			{"asset_identifier": "IMG_1", "latitude": 43.95, "longitude": 4.81},
		}}},
		{"latitude out of range", map[string]any{"photos": []map[string]any{
			{"asset_identifier": "IMG_1", "latitude": -91, "longitude": 4.81, "capture_date": "2026-06-01T09:30:00Z"},
		}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(newHTTPHandler(services{photos: &mockPhotoServicer{}}), http.MethodPost,
				"/trips/"+uuid.NewString()+"/photos/match", jsonBody(t, tc.body))

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, "validation_error", decodeError(t, rec).Code)
		})
	}
}

func TestMatchPhotos_404_TripNotFound(t *testing.T) {
	svc := &mockPhotoServicer{
		match: func(_ context.Context, _ uuid.UUID, _ []domain.PhotoMetadata) (service.MatchReport, error) {
			return service.MatchReport{}, domain.ErrNotFound
		},
	}
	body := jsonBody(t, map[string]any{"photos": []map[string]any{
		{"asset_identifier": "IMG_1", "latitude": 43.95, "longitude": 4.81, "capture_date": "2026-06-01T09:30:00Z"},
	}})

	rec := serve(newHTTPHandler(services{photos: svc}), http.MethodPost, "/trips/"+uuid.NewString()+"/photos/match", body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- GET .../stops/{stopId}/photos -----------------------------------------

func TestListStopPhotos_200(t *testing.T) {
	tripID, dayID, stopID := uuid.New(), uuid.New(), uuid.New()
	svc := &mockPhotoServicer{
		listByStopID: func(_ context.Context, gotTrip, gotDay, gotStop uuid.UUID) ([]domain.MatchedPhoto, error) {
			assert.Equal(t, tripID, gotTrip)
			assert.Equal(t, dayID, gotDay)
			assert.Equal(t, stopID, gotStop)
			return []domain.MatchedPhoto{{ID: uuid.New(), AssetIdentifier: "IMG_1", MatchConfidence: domain.ConfidenceMedium, MatchedStopID: &stopID}}, nil
		},
	}

	rec := serve(newHTTPHandler(services{photos: svc}), http.MethodGet,
		stopsURL(tripID, dayID)+"/"+stopID.String()+"/photos", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []handler.Photo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "medium", resp[0].MatchConfidence)
}

// ---- PUT /trips/{tripId}/photos/{photoId}/assignment -----------------------

func TestAssignPhoto_200(t *testing.T) {
	photoID, stopID := uuid.New(), uuid.New()
	svc := &mockPhotoServicer{
		assign: func(_ context.Context, _, gotPhoto uuid.UUID, gotStop *uuid.UUID) (domain.MatchedPhoto, error) {
			assert.Equal(t, photoID, gotPhoto)
			require.NotNil(t, gotStop)
			assert.Equal(t, stopID, *gotStop)
			return domain.MatchedPhoto{ID: gotPhoto, MatchedStopID: gotStop, MatchConfidence: domain.ConfidenceHigh, IsManuallyAssigned: true}, nil
		},
	}

	rec := serve(newHTTPHandler(services{photos: svc}), http.MethodPut,
		"/trips/"+uuid.NewString()+"/photos/"+photoID.String()+"/assignment",
		jsonBody(t, map[string]any{"stop_id": stopID.String()}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.Photo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.IsManuallyAssigned)
	assert.Equal(t, "high", resp.MatchConfidence)
}

func TestAssignPhoto_200_NullClears(t *testing.T) {
	svc := &mockPhotoServicer{
		assign: func(_ context.Context, _, id uuid.UUID, gotStop *uuid.UUID) (domain.MatchedPhoto, error) {
			assert.Nil(t, gotStop)
			return domain.MatchedPhoto{ID: id, MatchConfidence: domain.ConfidenceLow, IsManuallyAssigned: true}, nil
		},
	}

	rec := serve(newHTTPHandler(services{photos: svc}), http.MethodPut,
		"/trips/"+uuid.NewString()+"/photos/"+uuid.NewString()+"/assignment",
		jsonBody(t, map[string]any{"stop_id": nil}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"matched_stop_id":null`)
}

func TestAssignPhoto_400_BadStopID(t *testing.T) {
	rec := serve(newHTTPHandler(services{photos: &mockPhotoServicer{}}), http.MethodPut,
		"/trips/"+uuid.NewString()+"/photos/"+uuid.NewString()+"/assignment",
		jsonBody(t, map[string]any{"stop_id": "nope"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
