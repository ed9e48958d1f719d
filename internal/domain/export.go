package domain

// ExportRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per node, with trip fields repeated
// for every node on that trip. Trips with no nodes yield one row with zero
// values for all node fields.
type ExportRow struct {
	// Trip fields, repeated for every node on the trip.
	TripID        string `json:"trip_id" yaml:"trip_id"`
	TripTitle     string `json:"trip_title" yaml:"trip_title"`
	TripStartDate string `json:"trip_start_date" yaml:"trip_start_date"` // "2006-01-02"
	TripDays      int    `json:"trip_days" yaml:"trip_days"`

	// Node fields, zero values when the trip has no nodes.
	Day       int      `json:"day,omitempty" yaml:"day,omitempty"`
	Date      string   `json:"date,omitempty" yaml:"date,omitempty"`
	Order     int      `json:"order,omitempty" yaml:"order,omitempty"`
	NodeName  string   `json:"node_name,omitempty" yaml:"node_name,omitempty"`
	NodeType  NodeType `json:"node_type,omitempty" yaml:"node_type,omitempty"`
	Lng       float64  `json:"lng,omitempty" yaml:"lng,omitempty"`
	Lat       float64  `json:"lat,omitempty" yaml:"lat,omitempty"`
	Address   string   `json:"address,omitempty" yaml:"address,omitempty"`
	StartTime string   `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	Duration  *int     `json:"duration,omitempty" yaml:"duration,omitempty"`
	Cost      *float64 `json:"cost,omitempty" yaml:"cost,omitempty"`
	Notes     string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}
