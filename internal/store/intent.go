package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Intent is a named request to change the store state. The set of intents is
// closed: only the types in this file implement it.
type Intent interface {
	// Name identifies the intent in logs and metrics.
	Name() string
	intent()
}

// SetTrips replaces the trip collection and marks the initial load complete.
type SetTrips struct {
	Trips []domain.Trip
}

// SetCurrentTrip replaces the current trip. A nil Trip clears it.
type SetCurrentTrip struct {
	Trip *domain.Trip
}

// CreateTrip appends a trip and makes it current. The caller guarantees the
// id is not already present.
type CreateTrip struct {
	Trip domain.Trip
}

// UpdateTrip replaces the trip with the same id, and the current trip if it
// is that trip. An unknown id is a no-op.
type UpdateTrip struct {
	Trip domain.Trip
}

// DeleteTrip removes a trip together with its nodes and routes.
type DeleteTrip struct {
	TripID uuid.UUID
}

// AddNode appends a node to a trip. Day and Order are computed by the caller.
// At is the mutation time written to the trip's UpdatedAt.
type AddNode struct {
	TripID uuid.UUID
	Node   domain.Node
	At     time.Time
}

// UpdateNode replaces the node with the same id within a trip.
type UpdateNode struct {
	TripID uuid.UUID
	Node   domain.Node
	At     time.Time
}

// DeleteNode removes a node from a trip. Remaining orders are not renumbered.
type DeleteNode struct {
	TripID uuid.UUID
	NodeID uuid.UUID
	At     time.Time
}

// ReorderNodes replaces a trip's entire node collection. Nodes missing from
// the supplied collection are dropped.
type ReorderNodes struct {
	TripID uuid.UUID
	Nodes  []domain.Node
	At     time.Time
}

// SetRoutes replaces a trip's route collection.
type SetRoutes struct {
	TripID uuid.UUID
	Routes []domain.RouteSegment
	At     time.Time
}

// SetLoading sets the loading flag.
type SetLoading struct {
	Loading bool
}

func (SetTrips) Name() string       { return "set_trips" }
func (SetCurrentTrip) Name() string { return "set_current_trip" }
func (CreateTrip) Name() string     { return "create_trip" }
func (UpdateTrip) Name() string     { return "update_trip" }
func (DeleteTrip) Name() string     { return "delete_trip" }
func (AddNode) Name() string        { return "add_node" }
func (UpdateNode) Name() string     { return "update_node" }
func (DeleteNode) Name() string     { return "delete_node" }
func (ReorderNodes) Name() string   { return "reorder_nodes" }
func (SetRoutes) Name() string      { return "set_routes" }
func (SetLoading) Name() string     { return "set_loading" }

func (SetTrips) intent()       {}
func (SetCurrentTrip) intent() {}
func (CreateTrip) intent()     {}
func (UpdateTrip) intent()     {}
func (DeleteTrip) intent()     {}
func (AddNode) intent()        {}
func (UpdateNode) intent()     {}
func (DeleteNode) intent()     {}
func (ReorderNodes) intent()   {}
func (SetRoutes) intent()      {}
func (SetLoading) intent()     {}
