package photomatch_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripwit/internal/domain"
	"github.com/pkordes/tripwit/internal/photomatch"
)

// ---- helpers ---------------------------------------------------------------

// reference is 2026-01-15 10:00 UTC.
var reference = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

// Eiffel Tower. 0.0009° of latitude is ~100 m here.
const (
	eiffelLat = 48.8584
	eiffelLon = 2.2945
)

func ptr(t time.Time) *time.Time { return &t }

func stopFixture(lat, lon float64, arrival, departure *time.Time) domain.Stop {
	return domain.Stop{
		ID:            uuid.New(),
		DayID:         uuid.New(),
		Name:          "Test Stop",
		Location:      domain.GeoPoint{Latitude: lat, Longitude: lon},
		ArrivalTime:   arrival,
		DepartureTime: departure,
		Category:      domain.CategoryAttraction,
	}
}

func photoFixture(lat, lon float64, captured time.Time) domain.PhotoMetadata {
	return domain.PhotoMetadata{
		AssetIdentifier: "photo-1",
		Location:        domain.GeoPoint{Latitude: lat, Longitude: lon},
		CaptureDate:     captured,
	}
}

func visitedStop() domain.Stop {
	return stopFixture(eiffelLat, eiffelLon, ptr(reference), ptr(reference.Add(time.Hour)))
}

func matchOne(t *testing.T, photo domain.PhotoMetadata, stops ...domain.Stop) domain.PhotoMatchResult {
	t.Helper()
	results := photomatch.New(photomatch.DefaultConfig()).MatchPhotos([]domain.PhotoMetadata{photo}, stops)
	require.Len(t, results, 1)
	return results[0]
}

// ---- confidence bands ------------------------------------------------------

func TestMatchPhotos_ExactLocationWithinWindow_High(t *testing.T) {
	stop := visitedStop()

	got := matchOne(t, photoFixture(eiffelLat, eiffelLon, reference.Add(30*time.Minute)), stop)

	require.NotNil(t, got.MatchedStop)
	assert.Equal(t, stop.ID, got.MatchedStop.ID)
	assert.Equal(t, domain.ConfidenceHigh, got.Confidence)
	assert.Less(t, got.DistanceMeters, 1.0)
}

func TestMatchPhotos_NearbyWithinWindow_High(t *testing.T) {
	got := matchOne(t, photoFixture(eiffelLat+0.0009, eiffelLon, reference.Add(30*time.Minute)), visitedStop())

	require.NotNil(t, got.MatchedStop)
	assert.Equal(t, domain.ConfidenceHigh, got.Confidence)
	assert.InDelta(t, 100, got.DistanceMeters, 5)
}

func TestMatchPhotos_WithinWindowOfDepartureOnly_High(t *testing.T) {
	// 2h30m after arrival but 1h30m after departure.
	got := matchOne(t, photoFixture(eiffelLat, eiffelLon, reference.Add(150*time.Minute)), visitedStop())

	assert.Equal(t, domain.ConfidenceHigh, got.Confidence)
}

func TestMatchPhotos_WindowBoundaryIsInclusive(t *testing.T) {
	stop := stopFixture(eiffelLat, eiffelLon, ptr(reference), nil)

	got := matchOne(t, photoFixture(eiffelLat, eiffelLon, reference.Add(-2*time.Hour)), stop)

	assert.Equal(t, domain.ConfidenceHigh, got.Confidence)
}

func TestMatchPhotos_OutsideTimeWindow_Medium(t *testing.T) {
	// 4 hours after departure.
	got := matchOne(t, photoFixture(eiffelLat, eiffelLon, reference.Add(5*time.Hour)), visitedStop())

	require.NotNil(t, got.MatchedStop)
	assert.Equal(t, domain.ConfidenceMedium, got.Confidence)
}

func TestMatchPhotos_StopWithoutTimes_Medium(t *testing.T) {
	stop := stopFixture(eiffelLat, eiffelLon, nil, nil)

	got := matchOne(t, photoFixture(eiffelLat, eiffelLon, reference), stop)

	require.NotNil(t, got.MatchedStop)
	assert.Equal(t, domain.ConfidenceMedium, got.Confidence)
}

func TestMatchPhotos_ModerateDistance_Low(t *testing.T) {
	// ~300 m north.
	got := matchOne(t, photoFixture(eiffelLat+0.0027, eiffelLon, reference.Add(30*time.Minute)), visitedStop())

	require.NotNil(t, got.MatchedStop)
	assert.Equal(t, domain.ConfidenceLow, got.Confidence)
	assert.Greater(t, got.DistanceMeters, 200.0)
	assert.LessOrEqual(t, got.DistanceMeters, 400.0)
}

func TestMatchPhotos_FarAway_NoMatch(t *testing.T) {
	// ~1000 m north.
	got := matchOne(t, photoFixture(eiffelLat+0.009, eiffelLon, reference.Add(30*time.Minute)), visitedStop())

	assert.Nil(t, got.MatchedStop)
	assert.Equal(t, domain.ConfidenceLow, got.Confidence)
	assert.Greater(t, got.DistanceMeters, 400.0)
	assert.False(t, math.IsInf(got.DistanceMeters, 1))
}

// ---- nearest stop selection -----------------------------------------------

func TestMatchPhotos_PicksNearestStop(t *testing.T) {
	far := stopFixture(eiffelLat+0.0018, eiffelLon, ptr(reference), nil)
	near := stopFixture(eiffelLat, eiffelLon, ptr(reference), nil)

	got := matchOne(t, photoFixture(eiffelLat, eiffelLon, reference), far, near)

	require.NotNil(t, got.MatchedStop)
	assert.Equal(t, near.ID, got.MatchedStop.ID)
}

func TestMatchPhotos_TieGoesToFirstStop(t *testing.T) {
	first := stopFixture(eiffelLat, eiffelLon, ptr(reference), nil)
	second := stopFixture(eiffelLat, eiffelLon, ptr(reference), nil)

	got := matchOne(t, photoFixture(eiffelLat+0.0005, eiffelLon, reference), first, second)

	require.NotNil(t, got.MatchedStop)
	assert.Equal(t, first.ID, got.MatchedStop.ID)
}

func TestMatchPhotos_TimeWindowUsesNearestStopOnly(t *testing.T) {
	// The nearer stop has no times; the farther one would be in-window.
	near := stopFixture(eiffelLat, eiffelLon, nil, nil)
	farInWindow := stopFixture(eiffelLat+0.0009, eiffelLon, ptr(reference), nil)

	got := matchOne(t, photoFixture(eiffelLat, eiffelLon, reference), near, farInWindow)

	require.NotNil(t, got.MatchedStop)
	assert.Equal(t, near.ID, got.MatchedStop.ID)
	assert.Equal(t, domain.ConfidenceMedium, got.Confidence)
}

// ---- empty inputs and ordering --------------------------------------------

func TestMatchPhotos_NoStops(t *testing.T) {
	photos := []domain.PhotoMetadata{
		photoFixture(eiffelLat, eiffelLon, reference),
		photoFixture(0, 0, reference),
	}

	results := photomatch.New(photomatch.DefaultConfig()).MatchPhotos(photos, nil)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Nil(t, r.MatchedStop)
		assert.Equal(t, domain.ConfidenceLow, r.Confidence)
		assert.True(t, math.IsInf(r.DistanceMeters, 1))
	}
}

func TestMatchPhotos_NoPhotos(t *testing.T) {
	results := photomatch.New(photomatch.DefaultConfig()).MatchPhotos(nil, []domain.Stop{visitedStop()})

	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestMatchPhotos_PreservesInputOrder(t *testing.T) {
	photos := []domain.PhotoMetadata{
		{AssetIdentifier: "a", Location: domain.GeoPoint{Latitude: 10, Longitude: 10}, CaptureDate: reference},
		{AssetIdentifier: "b", Location: domain.GeoPoint{Latitude: eiffelLat, Longitude: eiffelLon}, CaptureDate: reference},
		{AssetIdentifier: "c", Location: domain.GeoPoint{Latitude: -10, Longitude: -10}, CaptureDate: reference},
	}

	results := photomatch.New(photomatch.DefaultConfig()).MatchPhotos(photos, []domain.Stop{visitedStop()})

	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Photo.AssetIdentifier)
	assert.Equal(t, "b", results[1].Photo.AssetIdentifier)
	assert.Equal(t, "c", results[2].Photo.AssetIdentifier)
	assert.Nil(t, results[0].MatchedStop)
	assert.NotNil(t, results[1].MatchedStop)
	assert.Nil(t, results[2].MatchedStop)
}

func TestMatchPhotos_CustomThresholds(t *testing.T) {
	m := photomatch.New(photomatch.Config{MaxDistanceMeters: 50, MaxTimeWindow: 10 * time.Minute})
	photo := photoFixture(eiffelLat+0.0009, eiffelLon, reference.Add(5*time.Minute))

	results := m.MatchPhotos([]domain.PhotoMetadata{photo}, []domain.Stop{visitedStop()})

	require.Len(t, results, 1)
	assert.Nil(t, results[0].MatchedStop, "100 m is beyond twice a 50 m radius")
}

func TestMatchPhotos_DoesNotAliasInputStop(t *testing.T) {
	stops := []domain.Stop{visitedStop()}

	got := matchOne(t, photoFixture(eiffelLat, eiffelLon, reference), stops...)
	got.MatchedStop.Name = "changed"

	assert.Equal(t, "Test Stop", stops[0].Name)
}

// ---- ToMatchedPhoto --------------------------------------------------------

func TestToMatchedPhoto_Matched(t *testing.T) {
	stop := visitedStop()
	r := matchOne(t, photoFixture(eiffelLat, eiffelLon, reference), stop)
	id := uuid.New()

	mp := photomatch.ToMatchedPhoto(r, id)

	assert.Equal(t, id, mp.ID)
	assert.Equal(t, "photo-1", mp.AssetIdentifier)
	assert.Equal(t, r.Photo.Location, mp.Location)
	assert.Equal(t, reference, mp.CaptureDate)
	assert.Equal(t, domain.ConfidenceHigh, mp.MatchConfidence)
	require.NotNil(t, mp.MatchedStopID)
	assert.Equal(t, stop.ID, *mp.MatchedStopID)
	assert.False(t, mp.IsManuallyAssigned)
}

func TestToMatchedPhoto_Unmatched(t *testing.T) {
	r := matchOne(t, photoFixture(0, 0, reference))

	mp := photomatch.ToMatchedPhoto(r, uuid.New())

	assert.Nil(t, mp.MatchedStopID)
	assert.Equal(t, domain.ConfidenceLow, mp.MatchConfidence)
}
