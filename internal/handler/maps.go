package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/mapprovider"
)

// PlaceList is the body of GET /places.
type PlaceList struct {
	Data []mapprovider.Place `json:"data"`
}

// MapClickRequest is the body of POST /map/click.
type MapClickRequest struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// TripMap is the body of GET /trips/{tripId}/map. StaticMapURL is omitted
// when no map provider is configured.
type TripMap struct {
	mapprovider.Overlay
	StaticMapURL string `json:"staticMapUrl,omitempty"`
}

// SearchPlaces handles GET /places?q=.
func (s *Server) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	if !s.mapsAvailable() {
		writeError(w, mapprovider.ErrUnavailable, "")
		return
	}

	places, err := s.maps.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err, "")
		return
	}
	if places == nil {
		places = []mapprovider.Place{}
	}
	writeJSON(w, http.StatusOK, PlaceList{Data: places})
}

// ReverseGeocode handles GET /places/reverse?lng=&lat=.
func (s *Server) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	if !s.mapsAvailable() {
		writeError(w, mapprovider.ErrUnavailable, "")
		return
	}
	q := r.URL.Query()
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	if errLng != nil || errLat != nil {
		badRequest(w, "lng and lat must be numbers")
		return
	}

	place, err := s.maps.ReverseGeocode(r.Context(), lng, lat)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, place)
}

// MapClick handles POST /map/click. The click is delivered to a fresh
// canvas whose click handler reverse-geocodes the coordinate, so the
// response is the candidate place a user would pick.
func (s *Server) MapClick(w http.ResponseWriter, r *http.Request) {
	if !s.mapsAvailable() {
		writeError(w, mapprovider.ErrUnavailable, "")
		return
	}
	var body MapClickRequest
	if !decodeBody(w, r, &body) {
		return
	}

	var (
		place   mapprovider.Place
		pickErr error
	)
	canvas := s.maps.NewCanvas()
	mapprovider.PickOnClick(r.Context(), canvas, s.maps, func(p mapprovider.Place, err error) {
		place, pickErr = p, err
	})
	if err := canvas.Click(domain.Location{Lng: body.Lng, Lat: body.Lat}); err != nil {
		writeError(w, err, "")
		return
	}
	if pickErr != nil {
		writeError(w, pickErr, "")
		return
	}
	writeJSON(w, http.StatusOK, place)
}

// GetTripMap handles GET /trips/{tripId}/map?day=. Without ?day the whole
// trip is drawn.
func (s *Server) GetTripMap(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	day := 0
	if v := r.URL.Query().Get("day"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			badRequest(w, "invalid day")
			return
		}
		day = d
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "trip not found")
		return
	}
	overlay, err := mapprovider.BuildOverlay(trip, day)
	if err != nil {
		writeError(w, err, "")
		return
	}

	out := TripMap{Overlay: overlay}
	if s.mapsAvailable() {
		canvas := s.maps.NewCanvas()
		if err := mapprovider.Draw(canvas, overlay); err != nil {
			writeError(w, fmt.Errorf("handler.GetTripMap: %w", err), "")
			return
		}
		out.StaticMapURL = canvas.URL()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) mapsAvailable() bool {
	return s.maps != nil && s.maps.Available()
}
