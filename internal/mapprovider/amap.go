package mapprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pkordes/trip-planner/internal/domain"
)

// DefaultAMapBaseURL is the AMap web-service endpoint.
const DefaultAMapBaseURL = "https://restapi.amap.com"

// AMap implements Geocoder against the AMap web-service API and hands out
// static-map canvases implementing Renderer.
type AMap struct {
	client  *resty.Client
	key     string
	baseURL string
}

// NewAMap creates an AMap client. An empty key yields a client whose calls
// fail with ErrUnavailable.
func NewAMap(key, baseURL string) *AMap {
	if baseURL == "" {
		baseURL = DefaultAMapBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second)

	return &AMap{client: c, key: key, baseURL: baseURL}
}

// Available reports whether a key is configured.
func (a *AMap) Available() bool {
	return a.key != ""
}

// NewCanvas returns an empty static-map canvas using this client's key.
func (a *AMap) NewCanvas() *StaticCanvas {
	return newStaticCanvas(a.baseURL, a.key)
}

type amapPOI struct {
	ID       amapString `json:"id"`
	Name     amapString `json:"name"`
	Type     amapString `json:"type"`
	Location amapString `json:"location"`
	Address  amapString `json:"address"`
}

type amapPlaceResponse struct {
	Status string    `json:"status"`
	Info   string    `json:"info"`
	POIs   []amapPOI `json:"pois"`
}

type amapRegeoResponse struct {
	Status    string `json:"status"`
	Info      string `json:"info"`
	Regeocode struct {
		FormattedAddress amapString `json:"formatted_address"`
		POIs             []amapPOI  `json:"pois"`
	} `json:"regeocode"`
}

// Search runs a keyword place search and returns at most one page of
// candidates. POIs without a usable location are skipped.
func (a *AMap) Search(ctx context.Context, query string) ([]Place, error) {
	if !a.Available() {
		return nil, ErrUnavailable
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}

	var out amapPlaceResponse
	if err := a.get(ctx, "/v3/place/text", map[string]string{
		"keywords":   query,
		"offset":     "10",
		"page":       "1",
		"extensions": "base",
	}, &out); err != nil {
		return nil, fmt.Errorf("mapprovider.AMap.Search: %w", err)
	}
	if out.Status != "1" {
		return nil, fmt.Errorf("mapprovider.AMap.Search: %w: %s", ErrUpstream, out.Info)
	}

	places := make([]Place, 0, len(out.POIs))
	for _, p := range out.POIs {
		loc, ok := parseLngLat(string(p.Location))
		if !ok {
			continue
		}
		loc.Address = string(p.Address)
		places = append(places, Place{
			ID:       string(p.ID),
			Name:     string(p.Name),
			Address:  string(p.Address),
			Location: loc,
			Category: string(p.Type),
		})
	}
	return places, nil
}

// ReverseGeocode describes the coordinate: the nearest POI's name when there
// is one, otherwise the formatted address.
func (a *AMap) ReverseGeocode(ctx context.Context, lng, lat float64) (Place, error) {
	if !a.Available() {
		return Place{}, ErrUnavailable
	}
	loc := domain.Location{Lng: lng, Lat: lat}
	if err := validLocation(loc); err != nil {
		return Place{}, err
	}

	var out amapRegeoResponse
	if err := a.get(ctx, "/v3/geocode/regeo", map[string]string{
		"location":   formatLngLat(loc),
		"radius":     "200",
		"extensions": "all",
	}, &out); err != nil {
		return Place{}, fmt.Errorf("mapprovider.AMap.ReverseGeocode: %w", err)
	}
	if out.Status != "1" {
		return Place{}, fmt.Errorf("mapprovider.AMap.ReverseGeocode: %w: %s", ErrUpstream, out.Info)
	}

	address := string(out.Regeocode.FormattedAddress)
	loc.Address = address
	place := Place{Name: address, Address: address, Location: loc}
	if len(out.Regeocode.POIs) > 0 {
		poi := out.Regeocode.POIs[0]
		place.ID = string(poi.ID)
		place.Name = string(poi.Name)
		place.Category = string(poi.Type)
	}
	return place, nil
}

func (a *AMap) get(ctx context.Context, path string, params map[string]string, out any) error {
	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParam("key", a.key).
		SetQueryParam("output", "JSON").
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	return nil
}

// amapString decodes a field AMap sends as a string, or as an empty array
// when the value is missing.
type amapString string

func (s *amapString) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		*s = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = amapString(v)
	return nil
}

// parseLngLat parses AMap's "lng,lat" coordinate form.
func parseLngLat(s string) (domain.Location, bool) {
	lngStr, latStr, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Location{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return domain.Location{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return domain.Location{}, false
	}
	loc := domain.Location{Lng: lng, Lat: lat}
	return loc, validLocation(loc) == nil
}

// formatLngLat writes a coordinate in AMap's "lng,lat" form. AMap accepts at
// most six decimals.
func formatLngLat(l domain.Location) string {
	return formatCoord(l.Lng) + "," + formatCoord(l.Lat)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}
