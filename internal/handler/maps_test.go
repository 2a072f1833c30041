package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripwit/internal/domain"
	"github.com/pkordes/tripwit/internal/handler"
)

// mockMapServicer is a test double for handler.MapServicer.
type mockMapServicer struct {
	geoJSON func(ctx context.Context, tripID uuid.UUID) ([]byte, error)
	kml     func(ctx context.Context, tripID uuid.UUID) ([]byte, error)
}

func (m *mockMapServicer) GeoJSON(ctx context.Context, tripID uuid.UUID) ([]byte, error) {
	return m.geoJSON(ctx, tripID)
}
func (m *mockMapServicer) KML(ctx context.Context, tripID uuid.UUID) ([]byte, error) {
	return m.kml(ctx, tripID)
}

// compile-time check: mockMapServicer must satisfy handler.MapServicer.
var _ handler.MapServicer = (*mockMapServicer)(nil)

// ---- GET /trips/{tripId}/map.geojson ---------------------------------------

func TestGetTripGeoJSON_200(t *testing.T) {
	tripID := uuid.New()
	svc := &mockMapServicer{
		geoJSON: func(_ context.Context, id uuid.UUID) ([]byte, error) {
			assert.Equal(t, tripID, id)
			return []byte(`{"type":"FeatureCollection","features":[]}`), nil
		},
	}

	rec := serve(newHTTPHandler(services{maps: svc}), http.MethodGet, "/trips/"+tripID.String()+"/map.geojson", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, rec.Body.String())
}

// ---- GET /trips/{tripId}/map.kml -------------------------------------------

func TestGetTripKML_200_Attachment(t *testing.T) {
	tripID := uuid.New()
	svc := &mockMapServicer{
		kml: func(_ context.Context, _ uuid.UUID) ([]byte, error) {
			return []byte(`<kml xmlns="http://www.opengis.net/kml/2.2"></kml>`), nil
		},
	}

	rec := serve(newHTTPHandler(services{maps: svc}), http.MethodGet, "/trips/"+tripID.String()+"/map.kml", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.google-earth.kml+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="trip-`+tripID.String()+`.kml"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "<kml")
}

func TestGetTripKML_404(t *testing.T) {
	svc := &mockMapServicer{
		kml: func(_ context.Context, _ uuid.UUID) ([]byte, error) { return nil, domain.ErrNotFound },
	}

	rec := serve(newHTTPHandler(services{maps: svc}), http.MethodGet, "/trips/"+uuid.NewString()+"/map.kml", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "trip not found", decodeError(t, rec).Message)
}
