// Package mapprovider defines what the planner needs from a map provider
// (place search, reverse geocoding, marker and path rendering, click
// callbacks) and implements it for AMap. Nothing in domain or store imports
// this package.
package mapprovider

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/geo"
)

// ErrUnavailable is returned when no provider is configured.
// Handlers should map this to HTTP 503.
var ErrUnavailable = errors.New("map provider unavailable")

// ErrUpstream is returned when the provider rejects or fails a request.
// Handlers should map this to HTTP 502.
var ErrUpstream = errors.New("map provider error")

// Place is a candidate location returned by search or reverse geocoding.
type Place struct {
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name"`
	Address  string          `json:"address,omitempty"`
	Location domain.Location `json:"location"`
	Category string          `json:"category,omitempty"`
}

// Geocoder resolves text to places and coordinates to places.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Place, error)
	ReverseGeocode(ctx context.Context, lng, lat float64) (Place, error)
}

// ClickFunc receives the coordinate of a map click.
type ClickFunc func(domain.Location)

// Renderer draws markers and polylines and reports clicks.
type Renderer interface {
	RenderMarkers(markers []Marker) error
	RenderPath(points []domain.Location) error
	OnClick(fn ClickFunc)
}

// Marker is one node drawn on the map.
type Marker struct {
	NodeID   uuid.UUID       `json:"nodeId"`
	Label    string          `json:"label"`
	Category domain.NodeType `json:"category"`
	Icon     string          `json:"icon"`
	Day      int             `json:"day"`
	Order    int             `json:"order"`
	Location domain.Location `json:"location"`
}

// Path is the ordered stop sequence of one day.
type Path struct {
	Day    int               `json:"day"`
	Points []domain.Location `json:"points"`
	Meters float64           `json:"meters"`
}

// Overlay is everything drawn for a trip, or for one day of it.
type Overlay struct {
	TripID  uuid.UUID `json:"tripId"`
	Day     int       `json:"day,omitempty"`
	Markers []Marker  `json:"markers"`
	Paths   []Path    `json:"paths"`
}

// BuildOverlay lays out a trip for the map. day 0 selects every day;
// otherwise day must lie in [1, trip.Days]. Each day with at least two stops
// gets a path through its nodes in order.
func BuildOverlay(trip domain.Trip, day int) (Overlay, error) {
	if day < 0 || day > trip.Days {
		return Overlay{}, fmt.Errorf("%w: day must be between 1 and %d", domain.ErrValidation, trip.Days)
	}

	o := Overlay{TripID: trip.ID, Day: day, Markers: []Marker{}, Paths: []Path{}}
	for _, plan := range domain.GroupByDay(trip) {
		if day != 0 && plan.Day != day {
			continue
		}
		points := make([]domain.Location, 0, len(plan.Nodes))
		for _, n := range plan.Nodes {
			o.Markers = append(o.Markers, Marker{
				NodeID:   n.ID,
				Label:    n.Name,
				Category: n.Type,
				Icon:     n.Type.Info(domain.LabelLanguages[0]).Icon,
				Day:      n.Day,
				Order:    n.Order,
				Location: n.Location,
			})
			points = append(points, n.Location)
		}
		if len(points) >= 2 {
			o.Paths = append(o.Paths, Path{Day: plan.Day, Points: points, Meters: plan.Summary.StraightLineMeters})
		}
	}
	return o, nil
}

// Draw renders o onto r: all markers first, then one polyline per path.
func Draw(r Renderer, o Overlay) error {
	if err := r.RenderMarkers(o.Markers); err != nil {
		return fmt.Errorf("mapprovider.Draw: markers: %w", err)
	}
	for _, p := range o.Paths {
		if err := r.RenderPath(p.Points); err != nil {
			return fmt.Errorf("mapprovider.Draw: day %d path: %w", p.Day, err)
		}
	}
	return nil
}

// PickOnClick registers a click handler on r that reverse-geocodes the
// clicked coordinate and hands the candidate place to fn.
func PickOnClick(ctx context.Context, r Renderer, g Geocoder, fn func(Place, error)) {
	r.OnClick(func(loc domain.Location) {
		place, err := g.ReverseGeocode(ctx, loc.Lng, loc.Lat)
		if err != nil {
			fn(Place{}, err)
			return
		}
		place.Location.Lng, place.Location.Lat = loc.Lng, loc.Lat
		fn(place, nil)
	})
}

func validLocation(l domain.Location) error {
	if !geo.Valid(l.Lng, l.Lat) {
		return fmt.Errorf("%w: (%g, %g) is not a valid coordinate", domain.ErrValidation, l.Lng, l.Lat)
	}
	return nil
}
