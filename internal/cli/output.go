package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkordes/trip-planner/internal/domain"
)

// printer writes command results as JSON or as aligned text tables.
type printer struct {
	format string
	w      io.Writer
}

func (p printer) json() bool { return p.format == "json" }

func (p printer) printJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p printer) trips(trips []domain.Trip) error {
	if p.json() {
		return p.printJSON(trips)
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTART\tDAYS\tNODES")
	for _, t := range trips {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", t.ID, t.Title, t.StartDate.Time.Format("2006-01-02"), t.Days, len(t.Nodes))
	}
	return tw.Flush()
}

func (p printer) trip(t domain.Trip) error {
	totals := t.Totals()
	if p.json() {
		return p.printJSON(struct {
			domain.Trip
			Totals domain.TripTotals `json:"totals"`
		}{t, totals})
	}
	fmt.Fprintf(p.w, "%s  %s\n", t.ID, t.Title)
	fmt.Fprintf(p.w, "starts %s, %d day(s), %d node(s), total cost %.2f\n",
		t.StartDate.Time.Format("2006-01-02"), t.Days, totals.Nodes, totals.Cost)
	return nil
}

func (p printer) node(n domain.Node) error {
	if p.json() {
		return p.printJSON(n)
	}
	fmt.Fprintf(p.w, "%s  day %d #%d  %s (%s)\n", n.ID, n.Day, n.Order, n.Name, n.Type)
	return nil
}

func (p printer) days(plans []domain.DayPlan) error {
	if p.json() {
		return p.printJSON(plans)
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	for _, d := range plans {
		fmt.Fprintf(tw, "Day %d\t%s\t%d stop(s)\t%.0f m\n",
			d.Day, d.Date.Time.Format("2006-01-02"), d.Summary.Stops, d.Summary.StraightLineMeters)
		for _, n := range d.Nodes {
			fmt.Fprintf(tw, "  %d.\t%s\t%s\t%s\n", n.Order, n.Name, n.Type, strings.TrimSpace(n.StartTime))
		}
	}
	return tw.Flush()
}
