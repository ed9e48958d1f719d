package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/geo"
	"github.com/pkordes/trip-planner/internal/store"
)

// NodeService implements the node and route operations. All of them act on
// the current trip; with no trip selected they fail with
// domain.ErrNoCurrentTrip and dispatch nothing.
type NodeService struct {
	store Store
	opts  options
}

// NewNodeService constructs a NodeService on top of st.
func NewNodeService(st Store, opts ...Option) *NodeService {
	return &NodeService{store: st, opts: buildOptions(opts)}
}

// Add validates node, assigns it a new id and appends it to the current
// trip. An Order of 0 places the node after the ones already on its day.
// Returns domain.ErrNoCurrentTrip or domain.ErrValidation.
func (s *NodeService) Add(ctx context.Context, node domain.Node) (domain.Node, error) {
	node.Name = normalizeName(node.Name)
	node.ID = uuid.Nil
	_, err := s.onCurrent(ctx, "Add", func(trip domain.Trip) (store.Intent, error) {
		if err := validateNode(trip, node); err != nil {
			return nil, err
		}
		node.ID = s.opts.newID()
		if node.Order == 0 {
			node.Order = domain.NextOrder(trip.Nodes, node.Day)
		}
		return store.AddNode{TripID: trip.ID, Node: node, At: s.now()}, nil
	})
	if err != nil {
		return domain.Node{}, err
	}
	return node, nil
}

// Update replaces a node of the current trip by id.
// Returns domain.ErrNoCurrentTrip, domain.ErrValidation, or domain.ErrNotFound
// if the current trip has no node with that id.
func (s *NodeService) Update(ctx context.Context, node domain.Node) (domain.Node, error) {
	node.Name = normalizeName(node.Name)
	_, err := s.onCurrent(ctx, "Update", func(trip domain.Trip) (store.Intent, error) {
		if err := validateNode(trip, node); err != nil {
			return nil, err
		}
		if node.Order < 1 {
			return nil, fmt.Errorf("%w: order must be at least 1", domain.ErrValidation)
		}
		if _, ok := trip.Node(node.ID); !ok {
			return nil, fmt.Errorf("service.NodeService.Update: %w", domain.ErrNotFound)
		}
		return store.UpdateNode{TripID: trip.ID, Node: node, At: s.now()}, nil
	})
	if err != nil {
		return domain.Node{}, err
	}
	return node, nil
}

// Delete removes a node from the current trip. The remaining nodes keep
// their order values; use ReorderDay to close the gap.
// Returns domain.ErrNoCurrentTrip or domain.ErrNotFound.
func (s *NodeService) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.onCurrent(ctx, "Delete", func(trip domain.Trip) (store.Intent, error) {
		if _, ok := trip.Node(id); !ok {
			return nil, fmt.Errorf("service.NodeService.Delete: %w", domain.ErrNotFound)
		}
		return store.DeleteNode{TripID: trip.ID, NodeID: id, At: s.now()}, nil
	})
	return err
}

// Reorder replaces the current trip's entire node collection with nodes.
// The caller supplies the complete set; nodes left out are removed.
// Returns domain.ErrNoCurrentTrip or domain.ErrValidation.
func (s *NodeService) Reorder(ctx context.Context, nodes []domain.Node) ([]domain.Node, error) {
	out := make([]domain.Node, len(nodes))
	_, err := s.onCurrent(ctx, "Reorder", func(trip domain.Trip) (store.Intent, error) {
		seen := make(map[uuid.UUID]bool, len(nodes))
		for i, n := range nodes {
			n.Name = normalizeName(n.Name)
			if n.ID == uuid.Nil {
				return nil, fmt.Errorf("%w: nodes[%d]: id is required", domain.ErrValidation, i)
			}
			if seen[n.ID] {
				return nil, fmt.Errorf("%w: nodes[%d]: duplicate id %s", domain.ErrValidation, i, n.ID)
			}
			seen[n.ID] = true
			if err := validateNode(trip, n); err != nil {
				return nil, fmt.Errorf("nodes[%d]: %w", i, err)
			}
			if n.Order < 1 {
				return nil, fmt.Errorf("%w: nodes[%d]: order must be at least 1", domain.ErrValidation, i)
			}
			out[i] = n
		}
		return store.ReorderNodes{TripID: trip.ID, Nodes: out, At: s.now()}, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReorderDay applies a drag reorder of one day of the current trip.
// orderedIDs must list every node on that day exactly once; the day's nodes
// are renumbered 1..k in that sequence and the other days are left alone.
// Returns the day's nodes in their new order.
// Returns domain.ErrNoCurrentTrip or domain.ErrValidation.
func (s *NodeService) ReorderDay(ctx context.Context, day int, orderedIDs []uuid.UUID) ([]domain.Node, error) {
	var nodes []domain.Node
	_, err := s.onCurrent(ctx, "ReorderDay", func(trip domain.Trip) (store.Intent, error) {
		if day < 1 || day > trip.Days {
			return nil, fmt.Errorf("%w: day must be between 1 and %d", domain.ErrValidation, trip.Days)
		}
		var err error
		nodes, err = domain.ReorderDay(trip.Nodes, day, orderedIDs)
		if err != nil {
			return nil, fmt.Errorf("service.NodeService.ReorderDay: %w", err)
		}
		return store.ReorderNodes{TripID: trip.ID, Nodes: nodes, At: s.now()}, nil
	})
	if err != nil {
		return nil, err
	}
	return domain.NodesOnDay(nodes, day), nil
}

// SetRoutes replaces the current trip's route segments.
// Every segment must join two different nodes of the trip with a known
// transport mode and non-negative distance and duration.
// Returns domain.ErrNoCurrentTrip or domain.ErrValidation.
func (s *NodeService) SetRoutes(ctx context.Context, routes []domain.RouteSegment) ([]domain.RouteSegment, error) {
	if routes == nil {
		routes = []domain.RouteSegment{}
	}
	_, err := s.onCurrent(ctx, "SetRoutes", func(trip domain.Trip) (store.Intent, error) {
		for i, r := range routes {
			if err := validateRoute(trip, r); err != nil {
				return nil, fmt.Errorf("routes[%d]: %w", i, err)
			}
		}
		return store.SetRoutes{TripID: trip.ID, Routes: routes, At: s.now()}, nil
	})
	if err != nil {
		return nil, err
	}
	return routes, nil
}

// onCurrent resolves the current trip and derives an intent from it under
// the store lock.
func (s *NodeService) onCurrent(ctx context.Context, op string, build func(domain.Trip) (store.Intent, error)) (store.State, error) {
	return s.store.Do(ctx, func(st store.State) (store.Intent, error) {
		if st.CurrentTrip == nil {
			return nil, fmt.Errorf("service.NodeService.%s: %w", op, domain.ErrNoCurrentTrip)
		}
		// Prefer the collection entry; CurrentTrip mirrors it but may be
		// stale if the trip was deleted.
		trip, ok := st.Trip(st.CurrentTrip.ID)
		if !ok {
			return nil, fmt.Errorf("service.NodeService.%s: %w", op, domain.ErrNoCurrentTrip)
		}
		return build(trip)
	})
}

func (s *NodeService) now() time.Time {
	return s.opts.now().UTC()
}

// validateNode enforces the node rules shared by every write.
//   - Name must be non-empty.
//   - Type must be a known node type.
//   - Day must lie in [1, trip.Days]. A stored node may keep a later day
//     it was left on when the trip was shortened.
//   - Order must not be negative.
//   - Location must be a valid coordinate.
//   - StartTime, if set, must be HH:MM.
//   - Duration and Cost, if set, must not be negative.
func validateNode(trip domain.Trip, n domain.Node) error {
	if n.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !n.Type.Valid() {
		return fmt.Errorf("%w: unknown node type %q", domain.ErrValidation, n.Type)
	}
	if n.Day < 1 || (n.Day > trip.Days && !keepsDay(trip, n)) {
		return fmt.Errorf("%w: day must be between 1 and %d", domain.ErrValidation, trip.Days)
	}
	if n.Order < 0 {
		return fmt.Errorf("%w: order must not be negative", domain.ErrValidation)
	}
	if !geo.Valid(n.Location.Lng, n.Location.Lat) {
		return fmt.Errorf("%w: location (%g, %g) is not a valid coordinate", domain.ErrValidation, n.Location.Lng, n.Location.Lat)
	}
	if n.StartTime != "" {
		if _, err := time.Parse("15:04", n.StartTime); err != nil {
			return fmt.Errorf("%w: startTime must be HH:MM", domain.ErrValidation)
		}
	}
	if n.Duration != nil && *n.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative", domain.ErrValidation)
	}
	if n.Cost != nil && *n.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}
	return nil
}

func keepsDay(trip domain.Trip, n domain.Node) bool {
	stored, ok := trip.Node(n.ID)
	return ok && stored.Day == n.Day
}

func validateRoute(trip domain.Trip, r domain.RouteSegment) error {
	if r.From == r.To {
		return fmt.Errorf("%w: from and to must differ", domain.ErrValidation)
	}
	if _, ok := trip.Node(r.From); !ok {
		return fmt.Errorf("%w: from %s is not a node of this trip", domain.ErrValidation, r.From)
	}
	if _, ok := trip.Node(r.To); !ok {
		return fmt.Errorf("%w: to %s is not a node of this trip", domain.ErrValidation, r.To)
	}
	if !r.Mode.Valid() {
		return fmt.Errorf("%w: unknown transport mode %q", domain.ErrValidation, r.Mode)
	}
	if r.Distance < 0 || r.Duration < 0 {
		return fmt.Errorf("%w: distance and duration must not be negative", domain.ErrValidation)
	}
	for _, p := range r.Path {
		if !geo.Valid(p[0], p[1]) {
			return fmt.Errorf("%w: path point (%g, %g) is not a valid coordinate", domain.ErrValidation, p[0], p[1])
		}
	}
	return nil
}
