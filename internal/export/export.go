// Package export encodes flat export rows as JSON, CSV or YAML.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Format is an export encoding.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	YAML Format = "yaml"
)

// ParseFormat maps a user-supplied format name to a Format. An empty name
// selects JSON. Returns domain.ErrValidation for anything else.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return JSON, nil
	case JSON, CSV, YAML:
		return f, nil
	case "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, s)
}

// ContentType is the HTTP media type of f.
func (f Format) ContentType() string {
	switch f {
	case CSV:
		return "text/csv; charset=utf-8"
	case YAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// Write encodes rows to w in format f.
func Write(w io.Writer, f Format, rows []domain.ExportRow) error {
	if rows == nil {
		rows = []domain.ExportRow{}
	}
	switch f {
	case JSON:
		return writeJSON(w, rows)
	case CSV:
		return writeCSV(w, rows)
	case YAML:
		return writeYAML(w, rows)
	}
	return fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, f)
}

func writeJSON(w io.Writer, rows []domain.ExportRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("export.Write: json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, rows []domain.ExportRow) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("export.Write: yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("export.Write: yaml: %w", err)
	}
	return nil
}

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_title", "trip_start_date", "trip_days",
	"day", "date", "order", "node_name", "node_type",
	"lng", "lat", "address", "start_time", "duration", "cost", "notes",
}

func writeCSV(w io.Writer, rows []domain.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return fmt.Errorf("export.Write: csv: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(csvRecord(r)); err != nil {
			return fmt.Errorf("export.Write: csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export.Write: csv: %w", err)
	}
	return nil
}

// csvRecord flattens r. A row without a node (Day 0) leaves every node
// column empty rather than writing zeros.
func csvRecord(r domain.ExportRow) []string {
	rec := []string{r.TripID, r.TripTitle, r.TripStartDate, strconv.Itoa(r.TripDays)}
	if r.Day == 0 {
		return append(rec, make([]string, len(csvHeaders)-len(rec))...)
	}
	return append(rec,
		strconv.Itoa(r.Day),
		r.Date,
		strconv.Itoa(r.Order),
		r.NodeName,
		string(r.NodeType),
		formatFloat(r.Lng),
		formatFloat(r.Lat),
		r.Address,
		r.StartTime,
		optionalInt(r.Duration),
		optionalFloat(r.Cost),
		r.Notes,
	)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func optionalInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func optionalFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return formatFloat(*p)
}
