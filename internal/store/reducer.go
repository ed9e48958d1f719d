// Package store holds the trip planner's in-memory state and the only code
// allowed to change it. State changes are expressed as intents and applied by
// Apply, a pure transition function; Store serializes dispatch and persists
// the trip collection after every change.
package store

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// State is an immutable snapshot of the store.
type State struct {
	Trips       []domain.Trip `json:"trips"`
	CurrentTrip *domain.Trip  `json:"currentTrip"`
	IsLoading   bool          `json:"isLoading"`
}

// Initial returns the state before the persisted snapshot has been loaded.
func Initial() State {
	return State{Trips: []domain.Trip{}, IsLoading: true}
}

// Trip returns the trip with the given id.
func (s State) Trip(id uuid.UUID) (domain.Trip, bool) {
	if i := tripIndex(s.Trips, id); i >= 0 {
		return s.Trips[i], true
	}
	return domain.Trip{}, false
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{Trips: make([]domain.Trip, len(s.Trips)), IsLoading: s.IsLoading}
	for i, t := range s.Trips {
		out.Trips[i] = t.Clone()
	}
	if s.CurrentTrip != nil {
		c := s.CurrentTrip.Clone()
		out.CurrentTrip = &c
	}
	return out
}

// Apply returns the state that results from applying in to s. It never
// modifies s or the intent's payload, has no side effects, and returns s
// unchanged when the intent names a trip or node that does not exist.
func Apply(s State, in Intent) State {
	switch in := in.(type) {
	case SetTrips:
		s.Trips = in.Trips
		if s.Trips == nil {
			s.Trips = []domain.Trip{}
		}
		s.IsLoading = false
		return s

	case SetCurrentTrip:
		s.CurrentTrip = in.Trip
		return s

	case CreateTrip:
		s.Trips = append(slices.Clip(s.Trips), in.Trip)
		current := in.Trip
		s.CurrentTrip = &current
		return s

	case UpdateTrip:
		return replaceTrip(s, in.Trip)

	case DeleteTrip:
		return deleteTrip(s, in.TripID)

	case AddNode:
		return withTrip(s, in.TripID, func(t domain.Trip) (domain.Trip, bool) {
			t.Nodes = append(slices.Clip(t.Nodes), in.Node)
			return touch(t, in.At), true
		})

	case UpdateNode:
		return withTrip(s, in.TripID, func(t domain.Trip) (domain.Trip, bool) {
			i := nodeIndex(t.Nodes, in.Node.ID)
			if i < 0 {
				return t, false
			}
			t.Nodes = slices.Clone(t.Nodes)
			t.Nodes[i] = in.Node
			return touch(t, in.At), true
		})

	case DeleteNode:
		return withTrip(s, in.TripID, func(t domain.Trip) (domain.Trip, bool) {
			i := nodeIndex(t.Nodes, in.NodeID)
			if i < 0 {
				return t, false
			}
			t.Nodes = slices.Delete(slices.Clone(t.Nodes), i, i+1)
			return touch(t, in.At), true
		})

	case ReorderNodes:
		return withTrip(s, in.TripID, func(t domain.Trip) (domain.Trip, bool) {
			t.Nodes = nonNil(slices.Clone(in.Nodes))
			return touch(t, in.At), true
		})

	case SetRoutes:
		return withTrip(s, in.TripID, func(t domain.Trip) (domain.Trip, bool) {
			t.Routes = nonNil(slices.Clone(in.Routes))
			return touch(t, in.At), true
		})

	case SetLoading:
		s.IsLoading = in.Loading
		return s
	}
	return s
}

// replaceTrip is the single place a trip value is swapped into the state.
// Every trip-scoped intent ends here, so trips and CurrentTrip cannot diverge.
func replaceTrip(s State, trip domain.Trip) State {
	i := tripIndex(s.Trips, trip.ID)
	if i < 0 {
		return s
	}
	s.Trips = slices.Clone(s.Trips)
	s.Trips[i] = trip
	if s.CurrentTrip != nil && s.CurrentTrip.ID == trip.ID {
		current := trip
		s.CurrentTrip = &current
	}
	return s
}

func deleteTrip(s State, id uuid.UUID) State {
	isCurrent := s.CurrentTrip != nil && s.CurrentTrip.ID == id
	i := tripIndex(s.Trips, id)
	if i < 0 && !isCurrent {
		return s
	}
	if i >= 0 {
		s.Trips = slices.Delete(slices.Clone(s.Trips), i, i+1)
	}
	if isCurrent {
		s.CurrentTrip = nil
	}
	return s
}

// withTrip looks up a trip, lets fn derive its replacement, and routes the
// result through replaceTrip. fn reports false to leave the state untouched.
func withTrip(s State, id uuid.UUID, fn func(domain.Trip) (domain.Trip, bool)) State {
	i := tripIndex(s.Trips, id)
	if i < 0 {
		return s
	}
	updated, changed := fn(s.Trips[i])
	if !changed {
		return s
	}
	return replaceTrip(s, updated)
}

// touch stamps the mutation time. UpdatedAt never moves backwards, so two
// mutations within one clock tick still order strictly.
func touch(t domain.Trip, at time.Time) domain.Trip {
	if !at.After(t.UpdatedAt) {
		at = t.UpdatedAt.Add(time.Millisecond)
	}
	t.UpdatedAt = at
	return t
}

func tripIndex(trips []domain.Trip, id uuid.UUID) int {
	return slices.IndexFunc(trips, func(t domain.Trip) bool { return t.ID == id })
}

func nodeIndex(nodes []domain.Node, id uuid.UUID) int {
	return slices.IndexFunc(nodes, func(n domain.Node) bool { return n.ID == id })
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
