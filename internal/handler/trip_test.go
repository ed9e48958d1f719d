package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/store"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	state      func(ctx context.Context) store.State
	list       func(ctx context.Context) []domain.Trip
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	create     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	update     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete     func(ctx context.Context, id uuid.UUID) error
	setCurrent func(ctx context.Context, id *uuid.UUID) *domain.Trip
	current    func(ctx context.Context) (domain.Trip, error)
	days       func(ctx context.Context, id uuid.UUID) ([]domain.DayPlan, error)
}

func (m *mockTripServicer) State(ctx context.Context) store.State { return m.state(ctx) }
func (m *mockTripServicer) List(ctx context.Context) []domain.Trip { return m.list(ctx) }
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripServicer) SetCurrent(ctx context.Context, id *uuid.UUID) *domain.Trip {
	return m.setCurrent(ctx, id)
}
func (m *mockTripServicer) Current(ctx context.Context) (domain.Trip, error) {
	return m.current(ctx)
}
func (m *mockTripServicer) Days(ctx context.Context, id uuid.UUID) ([]domain.DayPlan, error) {
	return m.days(ctx, id)
}

// compile-time check: mockTripServicer must satisfy handler.TripServicer.
var _ handler.TripServicer = (*mockTripServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mock into the router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(svc handler.TripServicer) http.Handler {
	return handler.NewServer(svc, nil, nil, nil).Routes()
}

func tripFixture() domain.Trip {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return domain.Trip{
		ID:        uuid.New(),
		Title:     "Summer Tour",
		StartDate: openapi_types.Date{Time: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		Days:      3,
		Nodes:     []domain.Node{},
		Routes:    []domain.RouteSegment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, jsonBody(t, body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	fixture := tripFixture()
	var got domain.Trip
	svc := &mockTripServicer{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			got = trip
			return fixture, nil
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodPost, "/trips", map[string]any{
		"title":     "Summer Tour",
		"startDate": "2025-06-01",
		"days":      3,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Summer Tour", got.Title)
	assert.Equal(t, 3, got.Days)
	assert.Equal(t, "2025-06-01", got.StartDate.Time.Format("2006-01-02"))

	var resp domain.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, fixture.Title, resp.Title)
}

func TestCreateTrip_422_ValidationError(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodPost, "/trips", map[string]any{
		"title":     "",
		"startDate": "2025-06-01",
		"days":      3,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "validation_error", detail.Code)
	assert.Equal(t, "title is required", detail.Message)
}

func TestCreateTrip_422_MalformedBody(t *testing.T) {
	svc := &mockTripServicer{} // service must not be reached

	req := httptest.NewRequest(http.MethodPost, "/trips", bytes.NewBufferString(`{"title":`))
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Code)
}

func TestCreateTrip_422_BadDate(t *testing.T) {
	svc := &mockTripServicer{}

	rec := do(t, newHTTPHandler(svc), http.MethodPost, "/trips", map[string]any{
		"title":     "Summer Tour",
		"startDate": "June 1st",
		"days":      3,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateTrip_500_UnexpectedError(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("boom")
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodPost, "/trips", map[string]any{
		"title": "x", "startDate": "2025-06-01", "days": 1,
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeError(t, rec).Code)
}

// ---- GET /trips ------------------------------------------------------------

func TestListTrips_200(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		list: func(_ context.Context) []domain.Trip { return []domain.Trip{fixture} },
	}

	rec := do(t, newHTTPHandler(svc), http.MethodGet, "/trips", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp handler.TripList
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, fixture.ID, resp.Data[0].ID)
}

func TestListTrips_200_EmptyIsArray(t *testing.T) {
	svc := &mockTripServicer{
		list: func(_ context.Context) []domain.Trip { return []domain.Trip{} },
	}

	rec := do(t, newHTTPHandler(svc), http.MethodGet, "/trips", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

// ---- GET /trips/{tripId} ---------------------------------------------------

func TestGetTrip_200(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			assert.Equal(t, fixture.ID, id)
			return fixture, nil
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodGet, "/trips/"+fixture.ID.String(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetTrip_200_IncludesTotals(t *testing.T) {
	fixture := tripFixture()
	ticket, dinner := 60.0, 25.5
	fixture.Nodes = []domain.Node{
		{ID: uuid.New(), Name: "Museum", Type: domain.NodeAttraction, Day: 1, Order: 1, Cost: &ticket},
		{ID: uuid.New(), Name: "Dinner", Type: domain.NodeFood, Day: 1, Order: 2, Cost: &dinner},
		{ID: uuid.New(), Name: "Walk", Type: domain.NodeOther, Day: 2, Order: 1},
	}
	svc := &mockTripServicer{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return fixture, nil },
	}

	rec := do(t, newHTTPHandler(svc), http.MethodGet, "/trips/"+fixture.ID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.TripDetail
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, domain.TripTotals{Nodes: 3, Cost: 85.5}, resp.Totals)
}

func TestGetTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", domain.ErrNotFound)
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodGet, "/trips/"+uuid.New().String(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "not_found", detail.Code)
	assert.Equal(t, "trip not found", detail.Message)
}

func TestGetTrip_422_BadID(t *testing.T) {
	rec := do(t, newHTTPHandler(&mockTripServicer{}), http.MethodGet, "/trips/not-a-uuid", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- PUT /trips/{tripId} ---------------------------------------------------

func TestUpdateTrip_200_UsesPathID(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		update: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			assert.Equal(t, fixture.ID, trip.ID)
			fixture.Title = trip.Title
			return fixture, nil
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodPut, "/trips/"+fixture.ID.String(), map[string]any{
		"title": "Renamed", "startDate": "2025-06-01", "days": 3,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp domain.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Renamed", resp.Title)
}

func TestUpdateTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		update: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodPut, "/trips/"+uuid.New().String(), map[string]any{
		"title": "x", "startDate": "2025-06-01", "days": 1,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- DELETE /trips/{tripId} ------------------------------------------------

func TestDeleteTrip_204(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(_ context.Context, _ uuid.UUID) error { return nil },
	}

	rec := do(t, newHTTPHandler(svc), http.MethodDelete, "/trips/"+uuid.New().String(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(_ context.Context, _ uuid.UUID) error { return domain.ErrNotFound },
	}

	rec := do(t, newHTTPHandler(svc), http.MethodDelete, "/trips/"+uuid.New().String(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- days / state / current trip -------------------------------------------

func TestGetTripDays_200(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		days: func(_ context.Context, _ uuid.UUID) ([]domain.DayPlan, error) {
			return domain.GroupByDay(fixture), nil
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodGet, "/trips/"+fixture.ID.String()+"/days", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp handler.DayList
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "2025-06-03", resp.Data[2].Date.Time.Format("2006-01-02"))
}

func TestGetState_200(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		state: func(_ context.Context) store.State {
			return store.State{Trips: []domain.Trip{fixture}, CurrentTrip: &fixture}
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodGet, "/state", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp store.State
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Trips, 1)
	require.NotNil(t, resp.CurrentTrip)
	assert.Equal(t, fixture.ID, resp.CurrentTrip.ID)
	assert.False(t, resp.IsLoading)
}

func TestSetCurrentTrip_200(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		setCurrent: func(_ context.Context, id *uuid.UUID) *domain.Trip {
			require.NotNil(t, id)
			assert.Equal(t, fixture.ID, *id)
			return &fixture
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodPut, "/current-trip", map[string]any{"tripId": fixture.ID})

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp handler.CurrentTripResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.CurrentTrip)
	assert.Equal(t, fixture.ID, resp.CurrentTrip.ID)
}

func TestSetCurrentTrip_200_NullClears(t *testing.T) {
	svc := &mockTripServicer{
		setCurrent: func(_ context.Context, id *uuid.UUID) *domain.Trip {
			assert.Nil(t, id)
			return nil
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodPut, "/current-trip", map[string]any{"tripId": nil})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"currentTrip":null}`, rec.Body.String())
}

func TestGetCurrentTrip_409_NoneSelected(t *testing.T) {
	svc := &mockTripServicer{
		current: func(_ context.Context) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Current: %w", domain.ErrNoCurrentTrip)
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodGet, "/current-trip", nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "no_current_trip", decodeError(t, rec).Code)
}
