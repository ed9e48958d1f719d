package mapprovider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/mapprovider"
)

// compile-time checks: the AMap adapter provides both capabilities.
var (
	_ mapprovider.Geocoder = (*mapprovider.AMap)(nil)
	_ mapprovider.Renderer = (*mapprovider.StaticCanvas)(nil)
)

// newAMapServer starts a fake AMap endpoint that answers path with body and
// records the query it received.
func newAMapServer(t *testing.T, path, body string) (*mapprovider.AMap, *url.Values) {
	t.Helper()
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return mapprovider.NewAMap("test-key", srv.URL), &got
}

func TestAMap_Search(t *testing.T) {
	body := `{"status":"1","info":"OK","count":"2","pois":[
		{"id":"B000A8UIN8","name":"故宫博物院","type":"风景名胜","location":"116.397029,39.917839","address":"景山前街4号"},
		{"id":"B0FFF","name":"No location","type":"","location":[],"address":[]}
	]}`
	amap, query := newAMapServer(t, "/v3/place/text", body)

	places, err := amap.Search(context.Background(), "  故宫 ")

	require.NoError(t, err)
	require.Len(t, places, 1, "POIs without a location are skipped")
	assert.Equal(t, "故宫博物院", places[0].Name)
	assert.Equal(t, "景山前街4号", places[0].Address)
	assert.InDelta(t, 116.397029, places[0].Location.Lng, 1e-9)
	assert.InDelta(t, 39.917839, places[0].Location.Lat, 1e-9)
	assert.Equal(t, "故宫", query.Get("keywords"))
	assert.Equal(t, "test-key", query.Get("key"))
}

func TestAMap_Search_ProviderError(t *testing.T) {
	amap, _ := newAMapServer(t, "/v3/place/text", `{"status":"0","info":"INVALID_USER_KEY","infocode":"10001"}`)

	_, err := amap.Search(context.Background(), "museum")

	assert.ErrorIs(t, err, mapprovider.ErrUpstream)
	assert.ErrorContains(t, err, "INVALID_USER_KEY")
}

func TestAMap_Search_EmptyQuery(t *testing.T) {
	amap := mapprovider.NewAMap("test-key", "http://127.0.0.1:1")

	_, err := amap.Search(context.Background(), " ")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAMap_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := mapprovider.NewAMap("test-key", srv.URL).Search(context.Background(), "museum")

	assert.ErrorIs(t, err, mapprovider.ErrUpstream)
}

func TestAMap_NoKey(t *testing.T) {
	amap := mapprovider.NewAMap("", "")

	assert.False(t, amap.Available())
	_, err := amap.Search(context.Background(), "museum")
	assert.ErrorIs(t, err, mapprovider.ErrUnavailable)
	_, err = amap.ReverseGeocode(context.Background(), 116.0, 39.9)
	assert.ErrorIs(t, err, mapprovider.ErrUnavailable)
}

func TestAMap_ReverseGeocode_PrefersNearestPOI(t *testing.T) {
	body := `{"status":"1","info":"OK","regeocode":{
		"formatted_address":"北京市东城区东华门街道故宫博物院",
		"pois":[{"id":"B000A8UIN8","name":"故宫博物院","type":"风景名胜","location":"116.397029,39.917839","address":"景山前街4号"}]
	}}`
	amap, query := newAMapServer(t, "/v3/geocode/regeo", body)

	place, err := amap.ReverseGeocode(context.Background(), 116.3970291234, 39.917839)

	require.NoError(t, err)
	assert.Equal(t, "故宫博物院", place.Name)
	assert.Equal(t, "北京市东城区东华门街道故宫博物院", place.Address)
	assert.Equal(t, 116.3970291234, place.Location.Lng, "the queried coordinate is kept")
	assert.Equal(t, "116.397029,39.917839", query.Get("location"))
}

func TestAMap_ReverseGeocode_FallsBackToAddress(t *testing.T) {
	amap, _ := newAMapServer(t, "/v3/geocode/regeo", `{"status":"1","info":"OK","regeocode":{"formatted_address":"北京市海淀区","pois":[]}}`)

	place, err := amap.ReverseGeocode(context.Background(), 116.3, 39.95)

	require.NoError(t, err)
	assert.Equal(t, "北京市海淀区", place.Name)
}

func TestAMap_ReverseGeocode_EmptyAddressArray(t *testing.T) {
	amap, _ := newAMapServer(t, "/v3/geocode/regeo", `{"status":"1","info":"OK","regeocode":{"formatted_address":[],"pois":[]}}`)

	place, err := amap.ReverseGeocode(context.Background(), 150.0, 20.0)

	require.NoError(t, err)
	assert.Empty(t, place.Name)
}

func TestAMap_ReverseGeocode_InvalidCoordinate(t *testing.T) {
	amap := mapprovider.NewAMap("test-key", "http://127.0.0.1:1")

	_, err := amap.ReverseGeocode(context.Background(), 200, 0)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStaticCanvas_URL(t *testing.T) {
	canvas := mapprovider.NewAMap("test-key", "https://maps.example.com/").NewCanvas()
	assert.Empty(t, canvas.URL(), "nothing rendered yet")

	require.NoError(t, canvas.RenderMarkers([]mapprovider.Marker{
		{Label: "Museum", Category: domain.NodeAttraction, Day: 1, Order: 1, Location: domain.Location{Lng: 116.0, Lat: 39.9}},
		{Label: "Cafe", Category: domain.NodeFood, Day: 1, Order: 2, Location: domain.Location{Lng: 116.1, Lat: 39.91}},
	}))
	require.NoError(t, canvas.RenderPath([]domain.Location{{Lng: 116.0, Lat: 39.9}, {Lng: 116.1, Lat: 39.91}}))

	raw := canvas.URL()
	require.True(t, strings.HasPrefix(raw, "https://maps.example.com/v3/staticmap?"), raw)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "test-key", q.Get("key"))
	assert.Equal(t, "mid,0xFF6B6B,1:116,39.9|mid,0xFFA94D,2:116.1,39.91", q.Get("markers"))
	assert.Equal(t, "6,0x0091FF,1,,:116,39.9;116.1,39.91", q.Get("paths"))
}

func TestStaticCanvas_MarkerLabelsRestartEachDay(t *testing.T) {
	canvas := mapprovider.NewAMap("test-key", "https://maps.example.com").NewCanvas()
	require.NoError(t, canvas.RenderMarkers([]mapprovider.Marker{
		{Category: domain.NodeAttraction, Day: 1, Order: 1, Location: domain.Location{Lng: 116.0, Lat: 39.9}},
		{Category: domain.NodeAttraction, Day: 1, Order: 2, Location: domain.Location{Lng: 116.1, Lat: 39.9}},
		{Category: domain.NodeHotel, Day: 2, Order: 1, Location: domain.Location{Lng: 116.2, Lat: 39.9}},
		{Category: domain.NodeFood, Day: 2, Order: 36, Location: domain.Location{Lng: 116.3, Lat: 39.9}},
	}))

	u, err := url.Parse(canvas.URL())
	require.NoError(t, err)
	assert.Equal(t,
		"mid,0xFF6B6B,1:116,39.9|mid,0xFF6B6B,2:116.1,39.9|mid,0x748FFC,1:116.2,39.9|mid,0xFFA94D,1:116.3,39.9",
		u.Query().Get("markers"))
}

func TestStaticCanvas_NoKeyHasNoURL(t *testing.T) {
	canvas := mapprovider.NewAMap("", "").NewCanvas()
	require.NoError(t, canvas.RenderMarkers([]mapprovider.Marker{{Location: domain.Location{Lng: 1, Lat: 1}}}))

	assert.Empty(t, canvas.URL())
}

func TestStaticCanvas_RejectsBadInput(t *testing.T) {
	canvas := mapprovider.NewAMap("k", "").NewCanvas()

	assert.ErrorIs(t, canvas.RenderPath([]domain.Location{{Lng: 1, Lat: 1}}), domain.ErrValidation)
	assert.ErrorIs(t, canvas.RenderMarkers([]mapprovider.Marker{{Location: domain.Location{Lng: 0, Lat: 95}}}), domain.ErrValidation)
	assert.ErrorIs(t, canvas.Click(domain.Location{Lng: 181, Lat: 0}), domain.ErrValidation)
}

func TestStaticCanvas_ClickCallsEveryCallback(t *testing.T) {
	canvas := mapprovider.NewAMap("k", "").NewCanvas()
	var got []domain.Location
	canvas.OnClick(func(l domain.Location) { got = append(got, l) })
	canvas.OnClick(func(l domain.Location) { got = append(got, l) })

	require.NoError(t, canvas.Click(domain.Location{Lng: 116.4, Lat: 39.9}))

	assert.Len(t, got, 2)
}
