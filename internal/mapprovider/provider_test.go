package mapprovider_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/mapprovider"
)

// mockRenderer is a hand-written test double for mapprovider.Renderer.
type mockRenderer struct {
	markers []mapprovider.Marker
	paths   [][]domain.Location
	clicks  []mapprovider.ClickFunc
	pathErr error
}

func (m *mockRenderer) RenderMarkers(markers []mapprovider.Marker) error {
	m.markers = append(m.markers, markers...)
	return nil
}

func (m *mockRenderer) RenderPath(points []domain.Location) error {
	if m.pathErr != nil {
		return m.pathErr
	}
	m.paths = append(m.paths, points)
	return nil
}

func (m *mockRenderer) OnClick(fn mapprovider.ClickFunc) {
	m.clicks = append(m.clicks, fn)
}

// mockGeocoder is a hand-written test double for mapprovider.Geocoder.
type mockGeocoder struct {
	reverse func(ctx context.Context, lng, lat float64) (mapprovider.Place, error)
}

func (m *mockGeocoder) Search(context.Context, string) ([]mapprovider.Place, error) {
	return nil, nil
}

func (m *mockGeocoder) ReverseGeocode(ctx context.Context, lng, lat float64) (mapprovider.Place, error) {
	return m.reverse(ctx, lng, lat)
}

var (
	_ mapprovider.Renderer = (*mockRenderer)(nil)
	_ mapprovider.Geocoder = (*mockGeocoder)(nil)
)

func tripWithNodes() domain.Trip {
	node := func(name string, typ domain.NodeType, day, order int, lng, lat float64) domain.Node {
		return domain.Node{ID: uuid.New(), Name: name, Type: typ, Day: day, Order: order, Location: domain.Location{Lng: lng, Lat: lat}}
	}
	return domain.Trip{
		ID:        uuid.New(),
		Title:     "Spring Trip",
		StartDate: openapi_types.Date{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		Days:      3,
		Nodes: []domain.Node{
			node("Cafe", domain.NodeFood, 1, 2, 116.1, 39.91),
			node("Museum", domain.NodeAttraction, 1, 1, 116.0, 39.9),
			node("Hotel", domain.NodeHotel, 2, 1, 116.2, 39.95),
			node("Stray", domain.NodeOther, 7, 1, 0, 0),
		},
	}
}

func TestBuildOverlay_WholeTrip(t *testing.T) {
	o, err := mapprovider.BuildOverlay(tripWithNodes(), 0)

	require.NoError(t, err)
	require.Len(t, o.Markers, 3, "nodes outside the trip's days are not drawn")
	assert.Equal(t, "Museum", o.Markers[0].Label)
	assert.Equal(t, "Cafe", o.Markers[1].Label)
	assert.Equal(t, "Hotel", o.Markers[2].Label)
	assert.Equal(t, "🏞️", o.Markers[0].Icon)
	require.Len(t, o.Paths, 1, "only day 1 has two stops")
	assert.Equal(t, 1, o.Paths[0].Day)
	assert.Equal(t, []domain.Location{{Lng: 116.0, Lat: 39.9}, {Lng: 116.1, Lat: 39.91}}, o.Paths[0].Points)
	assert.Greater(t, o.Paths[0].Meters, 8000.0)
}

func TestBuildOverlay_OneDay(t *testing.T) {
	o, err := mapprovider.BuildOverlay(tripWithNodes(), 2)

	require.NoError(t, err)
	assert.Equal(t, 2, o.Day)
	require.Len(t, o.Markers, 1)
	assert.Equal(t, "Hotel", o.Markers[0].Label)
	assert.Empty(t, o.Paths)
}

func TestBuildOverlay_DayOutOfRange(t *testing.T) {
	_, err := mapprovider.BuildOverlay(tripWithNodes(), 4)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDraw(t *testing.T) {
	o, err := mapprovider.BuildOverlay(tripWithNodes(), 0)
	require.NoError(t, err)
	r := &mockRenderer{}

	require.NoError(t, mapprovider.Draw(r, o))

	assert.Len(t, r.markers, 3)
	assert.Len(t, r.paths, 1)
}

func TestDraw_PathError(t *testing.T) {
	o, err := mapprovider.BuildOverlay(tripWithNodes(), 0)
	require.NoError(t, err)

	err = mapprovider.Draw(&mockRenderer{pathErr: errors.New("boom")}, o)

	assert.ErrorContains(t, err, "day 1 path")
}

func TestPickOnClick(t *testing.T) {
	r := &mockRenderer{}
	g := &mockGeocoder{reverse: func(_ context.Context, lng, lat float64) (mapprovider.Place, error) {
		return mapprovider.Place{Name: "故宫博物院", Location: domain.Location{Lng: 116.397, Lat: 39.917}}, nil
	}}
	var got mapprovider.Place
	mapprovider.PickOnClick(context.Background(), r, g, func(p mapprovider.Place, err error) {
		require.NoError(t, err)
		got = p
	})

	require.Len(t, r.clicks, 1)
	r.clicks[0](domain.Location{Lng: 116.4, Lat: 39.92})

	assert.Equal(t, "故宫博物院", got.Name)
	assert.Equal(t, 116.4, got.Location.Lng, "the clicked coordinate wins")
	assert.Equal(t, 39.92, got.Location.Lat)
}

func TestPickOnClick_GeocoderError(t *testing.T) {
	r := &mockRenderer{}
	g := &mockGeocoder{reverse: func(context.Context, float64, float64) (mapprovider.Place, error) {
		return mapprovider.Place{}, mapprovider.ErrUpstream
	}}
	var gotErr error
	mapprovider.PickOnClick(context.Background(), r, g, func(_ mapprovider.Place, err error) { gotErr = err })

	r.clicks[0](domain.Location{Lng: 116.4, Lat: 39.92})

	assert.ErrorIs(t, gotErr, mapprovider.ErrUpstream)
}
