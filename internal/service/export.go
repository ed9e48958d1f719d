package service

import (
	"cmp"
	"context"
	"slices"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ExportService assembles a flat export of every trip and node.
type ExportService struct {
	store Store
}

// NewExportService constructs an ExportService reading from st.
func NewExportService(st Store) *ExportService {
	return &ExportService{store: st}
}

// Export returns one ExportRow per node across all trips, trips in
// collection order and nodes sorted by day then order.
// Trips with no nodes contribute one row with empty node fields.
func (s *ExportService) Export(_ context.Context) []domain.ExportRow {
	rows := []domain.ExportRow{}
	for _, trip := range s.store.State().Trips {
		base := domain.ExportRow{
			TripID:        trip.ID.String(),
			TripTitle:     trip.Title,
			TripStartDate: trip.StartDate.Time.Format("2006-01-02"),
			TripDays:      trip.Days,
		}
		if len(trip.Nodes) == 0 {
			rows = append(rows, base)
			continue
		}

		nodes := slices.Clone(trip.Nodes)
		slices.SortStableFunc(nodes, func(a, b domain.Node) int {
			if c := cmp.Compare(a.Day, b.Day); c != 0 {
				return c
			}
			return cmp.Compare(a.Order, b.Order)
		})
		for _, n := range nodes {
			row := base
			row.Day = n.Day
			row.Date = trip.DayDate(n.Day).Time.Format("2006-01-02")
			row.Order = n.Order
			row.NodeName = n.Name
			row.NodeType = n.Type
			row.Lng = n.Location.Lng
			row.Lat = n.Location.Lat
			row.Address = n.Location.Address
			row.StartTime = n.StartTime
			row.Duration = n.Duration
			row.Cost = n.Cost
			row.Notes = n.Notes
			rows = append(rows, row)
		}
	}
	return rows
}
