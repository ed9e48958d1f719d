package domain

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/geo"
)

// DayPlan is one day of a trip with its nodes in presentation order.
// It is derived from the node collection on demand and never persisted.
type DayPlan struct {
	Day     int                `json:"day"`
	Date    openapi_types.Date `json:"date"`
	Nodes   []Node             `json:"nodes"`
	Summary DaySummary         `json:"summary"`
}

// DaySummary aggregates the optional node fields of a single day.
// StraightLineMeters is the crow-flies distance visiting the nodes in order.
type DaySummary struct {
	Stops              int     `json:"stops"`
	TotalCost          float64 `json:"totalCost"`
	PlannedMinutes     int     `json:"plannedMinutes"`
	StraightLineMeters float64 `json:"straightLineMeters"`
}

// GroupByDay partitions the trip's nodes into one bucket per day 1..Days,
// each sorted ascending by Order. Ties keep their collection order.
// Nodes scheduled outside [1, Days] appear in no bucket.
func GroupByDay(t Trip) []DayPlan {
	if t.Days < 1 {
		return []DayPlan{}
	}
	buckets := make([][]Node, t.Days)
	for _, n := range t.Nodes {
		if n.Day < 1 || n.Day > t.Days {
			continue
		}
		buckets[n.Day-1] = append(buckets[n.Day-1], n)
	}

	plans := make([]DayPlan, t.Days)
	for i, nodes := range buckets {
		if nodes == nil {
			nodes = []Node{}
		}
		sortByOrder(nodes)
		plans[i] = DayPlan{
			Day:     i + 1,
			Date:    t.DayDate(i + 1),
			Nodes:   nodes,
			Summary: summarize(nodes),
		}
	}
	return plans
}

// NodesOnDay returns the nodes scheduled on day, sorted by Order.
func NodesOnDay(nodes []Node, day int) []Node {
	out := []Node{}
	for _, n := range nodes {
		if n.Day == day {
			out = append(out, n)
		}
	}
	sortByOrder(out)
	return out
}

// NextOrder is the order a node appended to day receives: one past the
// number of nodes already on that day.
func NextOrder(nodes []Node, day int) int {
	count := 0
	for _, n := range nodes {
		if n.Day == day {
			count++
		}
	}
	return count + 1
}

// Renumber returns a copy of dayNodes with Order set to index+1.
func Renumber(dayNodes []Node) []Node {
	out := make([]Node, len(dayNodes))
	for i, n := range dayNodes {
		n.Order = i + 1
		out[i] = n
	}
	return out
}

// ReorderDay applies a drag-reorder of one day. orderedIDs must be a
// permutation of the ids of the nodes currently on day. The result holds every
// node of other days untouched, followed by the day's nodes in the new
// sequence with Order renumbered to 1..k. Applying the same ordering twice
// yields the same collection.
func ReorderDay(nodes []Node, day int, orderedIDs []uuid.UUID) ([]Node, error) {
	others := make([]Node, 0, len(nodes))
	onDay := make(map[uuid.UUID]Node)
	for _, n := range nodes {
		if n.Day == day {
			onDay[n.ID] = n
			continue
		}
		others = append(others, n)
	}
	if len(orderedIDs) != len(onDay) {
		return nil, fmt.Errorf("%w: day %d has %d nodes, got %d ids", ErrValidation, day, len(onDay), len(orderedIDs))
	}

	sequence := make([]Node, 0, len(orderedIDs))
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		n, ok := onDay[id]
		if !ok || seen[id] {
			return nil, fmt.Errorf("%w: node %s is not on day %d or is repeated", ErrValidation, id, day)
		}
		seen[id] = true
		sequence = append(sequence, n)
	}
	return append(others, Renumber(sequence)...), nil
}

// OrdersContiguous reports whether the Order values of the nodes on day are
// exactly 1..k.
func OrdersContiguous(nodes []Node, day int) bool {
	for i, n := range NodesOnDay(nodes, day) {
		if n.Order != i+1 {
			return false
		}
	}
	return true
}

func sortByOrder(nodes []Node) {
	slices.SortStableFunc(nodes, func(a, b Node) int {
		return cmp.Compare(a.Order, b.Order)
	})
}

func summarize(nodes []Node) DaySummary {
	s := DaySummary{Stops: len(nodes)}
	points := make([][2]float64, 0, len(nodes))
	for _, n := range nodes {
		if n.Cost != nil {
			s.TotalCost += *n.Cost
		}
		if n.Duration != nil {
			s.PlannedMinutes += *n.Duration
		}
		points = append(points, [2]float64{n.Location.Lng, n.Location.Lat})
	}
	s.StraightLineMeters = geo.PathMeters(points)
	return s
}
