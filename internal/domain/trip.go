// Package domain contains the core data types for the trip planner.
// The JSON tags define the persisted snapshot layout, so renaming a tag is a
// breaking change for data written by earlier builds.
package domain

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Trip is the top-level planning unit. It owns its nodes and routes;
// deleting a trip discards both.
type Trip struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	CoverImage  string             `json:"coverImage,omitempty"`
	StartDate   openapi_types.Date `json:"startDate"`
	Days        int                `json:"days"` // valid node days are [1, Days]
	Nodes       []Node             `json:"nodes"`
	Routes      []RouteSegment     `json:"routes"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	TotalBudget *float64           `json:"totalBudget,omitempty"`
}

// Location is a WGS84 coordinate with an optional human-readable address.
type Location struct {
	Lng     float64 `json:"lng"`
	Lat     float64 `json:"lat"`
	Address string  `json:"address,omitempty"`
}

// TransportMode is how a route segment is travelled.
type TransportMode string

const (
	ModeWalking TransportMode = "walking"
	ModeDriving TransportMode = "driving"
	ModeTransit TransportMode = "transit"
)

// TransportModes lists every transport mode in display order.
var TransportModes = []TransportMode{ModeWalking, ModeDriving, ModeTransit}

// Valid reports whether m is one of the known transport modes.
func (m TransportMode) Valid() bool {
	switch m {
	case ModeWalking, ModeDriving, ModeTransit:
		return true
	}
	return false
}

// RouteSegment connects two nodes of the same trip. Segments are supplied
// from outside (a routing provider); nothing in this module computes them.
type RouteSegment struct {
	From     uuid.UUID     `json:"from"`
	To       uuid.UUID     `json:"to"`
	Mode     TransportMode `json:"mode"`
	Distance float64       `json:"distance"` // meters
	Duration float64       `json:"duration"` // seconds
	Path     [][2]float64  `json:"path,omitempty"` // [lng, lat] pairs
}

// DayDate returns the calendar date of the given 1-based trip day.
func (t Trip) DayDate(day int) openapi_types.Date {
	return openapi_types.Date{Time: t.StartDate.Time.AddDate(0, 0, day-1)}
}

// Node returns the node with the given id.
func (t Trip) Node(id uuid.UUID) (Node, bool) {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// TotalCost sums the cost of every node that has one.
func (t Trip) TotalCost() float64 {
	var sum float64
	for _, n := range t.Nodes {
		if n.Cost != nil {
			sum += *n.Cost
		}
	}
	return sum
}

// TripTotals summarizes a whole trip.
type TripTotals struct {
	Nodes int     `json:"nodes"`
	Cost  float64 `json:"cost"`
}

// Totals counts every node of t, including nodes on days past the trip's
// end, and sums their costs.
func (t Trip) Totals() TripTotals {
	return TripTotals{Nodes: len(t.Nodes), Cost: t.TotalCost()}
}

// Clone returns a deep copy of t. Snapshots handed to readers are clones so
// that nothing outside the store can reach the store's own slices.
func (t Trip) Clone() Trip {
	out := t
	out.Nodes = make([]Node, len(t.Nodes))
	for i, n := range t.Nodes {
		out.Nodes[i] = n.Clone()
	}
	out.Routes = make([]RouteSegment, len(t.Routes))
	for i, r := range t.Routes {
		out.Routes[i] = r
		if r.Path != nil {
			out.Routes[i].Path = append([][2]float64(nil), r.Path...)
		}
	}
	if t.TotalBudget != nil {
		b := *t.TotalBudget
		out.TotalBudget = &b
	}
	return out
}
