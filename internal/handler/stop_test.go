package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripwit/internal/domain"
	"github.com/pkordes/tripwit/internal/handler"
)

// mockStopServicer is a test double for handler.StopServicer.
type mockStopServicer struct {
	create      func(ctx context.Context, tripID uuid.UUID, stop domain.Stop) (domain.Stop, error)
	getByID     func(ctx context.Context, tripID, dayID, stopID uuid.UUID) (domain.Stop, error)
	listByDayID func(ctx context.Context, tripID, dayID uuid.UUID) ([]domain.Stop, error)
	update      func(ctx context.Context, tripID uuid.UUID, stop domain.Stop) (domain.Stop, error)
	delete      func(ctx context.Context, tripID, dayID, stopID uuid.UUID) error
	reorder     func(ctx context.Context, tripID, dayID uuid.UUID, from, to int) ([]domain.Stop, error)
}

func (m *mockStopServicer) Create(ctx context.Context, tripID uuid.UUID, stop domain.Stop) (domain.Stop, error) {
	return m.create(ctx, tripID, stop)
}
func (m *mockStopServicer) GetByID(ctx context.Context, tripID, dayID, stopID uuid.UUID) (domain.Stop, error) {
	return m.getByID(ctx, tripID, dayID, stopID)
}
func (m *mockStopServicer) ListByDayID(ctx context.Context, tripID, dayID uuid.UUID) ([]domain.Stop, error) {
	return m.listByDayID(ctx, tripID, dayID)
}
func (m *mockStopServicer) Update(ctx context.Context, tripID uuid.UUID, stop domain.Stop) (domain.Stop, error) {
	return m.update(ctx, tripID, stop)
}
func (m *mockStopServicer) Delete(ctx context.Context, tripID, dayID, stopID uuid.UUID) error {
	return m.delete(ctx, tripID, dayID, stopID)
}
func (m *mockStopServicer) Reorder(ctx context.Context, tripID, dayID uuid.UUID, from, to int) ([]domain.Stop, error) {
	return m.reorder(ctx, tripID, dayID, from, to)
}

// compile-time check: mockStopServicer must satisfy handler.StopServicer.
var _ handler.StopServicer = (*mockStopServicer)(nil)

// ---- helpers ---------------------------------------------------------------

func stopsURL(tripID, dayID uuid.UUID) string {
	return "/trips/" + tripID.String() + "/days/" + dayID.String() + "/stops"
}

func stopPayload() map[string]any {
	return map[string]any{
		"name":           "Palais des Papes",
		"latitude":       43.9509,
		"longitude":      4.8075,
		"arrival_time":   "2026-06-01T09:00:00Z",
		"departure_time": "2026-06-01T10:30:00Z",
		"category":       "attraction",
	}
}

// ---- POST .../stops --------------------------------------------------------

func TestCreateStop_201(t *testing.T) {
	tripID, dayID := uuid.New(), uuid.New()
	svc := &mockStopServicer{
		create: func(_ context.Context, gotTrip uuid.UUID, s domain.Stop) (domain.Stop, error) {
			assert.Equal(t, tripID, gotTrip)
			assert.Equal(t, dayID, s.DayID)
			assert.Equal(t, 43.9509, s.Location.Latitude)
			assert.Equal(t, domain.CategoryAttraction, s.Category)
			require.NotNil(t, s.ArrivalTime)
			assert.True(t, s.ArrivalTime.Equal(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)))
			s.ID = uuid.New()
			return s, nil
		},
	}

	rec := serve(newHTTPHandler(services{stops: svc}), http.MethodPost, stopsURL(tripID, dayID), jsonBody(t, stopPayload()))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp handler.Stop
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Palais des Papes", resp.Name)
	assert.Equal(t, dayID, resp.DayID)
}

func TestCreateStop_422_RequestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{"missing latitude", func(p map[string]any) { delete(p, "latitude") }, "latitude"},
		{"latitude out of range", func(p map[string]any) { p["latitude"] = 95.0 }, "latitude"},
		{"longitude out of range", func(p map[string]any) { p["longitude"] = 181.0 }, "longitude"},
		{"unknown category", func(p map[string]any) { p["category"] = "museum" }, "category"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := stopPayload()
			tc.mutate(p)

			rec := serve(newHTTPHandler(services{stops: &mockStopServicer{}}), http.MethodPost,
				stopsURL(uuid.New(), uuid.New()), jsonBody(t, p))

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, decodeError(t, rec).Message, tc.field)
		})
	}
}

func TestCreateStop_404_DayNotInTrip(t *testing.T) {
	svc := &mockStopServicer{
		create: func(_ context.Context, _ uuid.UUID, _ domain.Stop) (domain.Stop, error) {
			return domain.Stop{}, domain.ErrNotFound
		},
	}

	rec := serve(newHTTPHandler(services{stops: svc}), http.MethodPost, stopsURL(uuid.New(), uuid.New()), jsonBody(t, stopPayload()))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "day not found", decodeError(t, rec).Message)
}

func TestCreateStop_400_InvalidDayID(t *testing.T) {
	rec := serve(newHTTPHandler(services{stops: &mockStopServicer{}}), http.MethodPost,
		"/trips/"+uuid.NewString()+"/days/day-one/stops", jsonBody(t, stopPayload()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "dayId")
}

// ---- GET .../stops ---------------------------------------------------------

func TestListStops_200(t *testing.T) {
	dayID := uuid.New()
	svc := &mockStopServicer{
		listByDayID: func(_ context.Context, _, _ uuid.UUID) ([]domain.Stop, error) {
			return []domain.Stop{
				{ID: uuid.New(), DayID: dayID, Name: "A", Category: domain.CategoryOther},
				{ID: uuid.New(), DayID: dayID, Name: "B", Category: domain.CategoryOther, SortOrder: 1},
			}, nil
		},
	}

	rec := serve(newHTTPHandler(services{stops: svc}), http.MethodGet, stopsURL(uuid.New(), dayID), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []handler.Stop
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, 1, resp[1].SortOrder)
}

func TestListStops_200_Empty(t *testing.T) {
	svc := &mockStopServicer{
		listByDayID: func(_ context.Context, _, _ uuid.UUID) ([]domain.Stop, error) { return []domain.Stop{}, nil },
	}

	rec := serve(newHTTPHandler(services{stops: svc}), http.MethodGet, stopsURL(uuid.New(), uuid.New()), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

// ---- GET/PUT/DELETE .../stops/{stopId} -------------------------------------

func TestGetStop_404(t *testing.T) {
	svc := &mockStopServicer{
		getByID: func(_ context.Context, _, _, _ uuid.UUID) (domain.Stop, error) {
			return domain.Stop{}, domain.ErrNotFound
		},
	}

	rec := serve(newHTTPHandler(services{stops: svc}), http.MethodGet,
		stopsURL(uuid.New(), uuid.New())+"/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "stop not found", decodeError(t, rec).Message)
}

func TestUpdateStop_200_UsesPathIDs(t *testing.T) {
	tripID, dayID, stopID := uuid.New(), uuid.New(), uuid.New()
	svc := &mockStopServicer{
		update: func(_ context.Context, gotTrip uuid.UUID, s domain.Stop) (domain.Stop, error) {
			assert.Equal(t, tripID, gotTrip)
			assert.Equal(t, dayID, s.DayID)
			assert.Equal(t, stopID, s.ID)
			return s, nil
		},
	}

	rec := serve(newHTTPHandler(services{stops: svc}), http.MethodPut,
		stopsURL(tripID, dayID)+"/"+stopID.String(), jsonBody(t, stopPayload()))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteStop_204(t *testing.T) {
	tripID, dayID, stopID := uuid.New(), uuid.New(), uuid.New()
	svc := &mockStopServicer{
		delete: func(_ context.Context, gotTrip, gotDay, gotStop uuid.UUID) error {
			assert.Equal(t, tripID, gotTrip)
			assert.Equal(t, dayID, gotDay)
			assert.Equal(t, stopID, gotStop)
			return nil
		},
	}

	rec := serve(newHTTPHandler(services{stops: svc}), http.MethodDelete,
		stopsURL(tripID, dayID)+"/"+stopID.String(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// ---- POST .../stops/reorder ------------------------------------------------

func TestReorderStops_200(t *testing.T) {
	svc := &mockStopServicer{
		reorder: func(_ context.Context, _, _ uuid.UUID, from, to int) ([]domain.Stop, error) {
			assert.Equal(t, 2, from)
			assert.Equal(t, 0, to)
			return []domain.Stop{{Name: "C"}, {Name: "A", SortOrder: 1}, {Name: "B", SortOrder: 2}}, nil
		},
	}

	rec := serve(newHTTPHandler(services{stops: svc}), http.MethodPost,
		stopsURL(uuid.New(), uuid.New())+"/reorder", jsonBody(t, map[string]int{"from": 2, "to": 0}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []handler.Stop
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 3)
	assert.Equal(t, "C", resp[0].Name)
}

func TestReorderStops_422_MissingTo(t *testing.T) {
	rec := serve(newHTTPHandler(services{stops: &mockStopServicer{}}), http.MethodPost,
		stopsURL(uuid.New(), uuid.New())+"/reorder", jsonBody(t, map[string]int{"from": 0}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "to")
}
