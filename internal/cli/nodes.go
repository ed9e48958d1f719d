package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/domain"
)

// NodeOptions holds flags shared by the nodes subcommands. Node edits apply
// to the current trip, which tripctl selects from --trip on every call.
type NodeOptions struct {
	Trip string
}

func newNodesCommand(root *RootOptions) *cobra.Command {
	opts := &NodeOptions{}

	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Add, remove and reorder the nodes of a trip",
	}
	cmd.PersistentFlags().StringVar(&opts.Trip, "trip", "", "trip id (required)")
	_ = cmd.MarkPersistentFlagRequired("trip")

	cmd.AddCommand(newNodesAddCommand(root, opts))
	cmd.AddCommand(newNodesRmCommand(root, opts))
	cmd.AddCommand(newNodesMoveCommand(root, opts))
	return cmd
}

// selectTrip makes --trip the current trip of s.
func selectTrip(ctx context.Context, s *session, tripFlag string) (uuid.UUID, error) {
	id, err := parseID(tripFlag)
	if err != nil {
		return uuid.Nil, err
	}
	if s.trips.SetCurrent(ctx, &id) == nil {
		return uuid.Nil, fmt.Errorf("trip %s: %w", id, domain.ErrNotFound)
	}
	return id, nil
}

// NodeAddOptions holds flags for nodes add.
type NodeAddOptions struct {
	Name      string
	Type      string
	Day       int
	Order     int
	Lng       float64
	Lat       float64
	Address   string
	StartTime string
	Duration  int
	Cost      float64
	Notes     string
}

func newNodesAddCommand(root *RootOptions, nodeOpts *NodeOptions) *cobra.Command {
	opts := &NodeAddOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a node to a day",
		Long: `Add a node to a day of the trip. Without --order the node goes to the
end of the day.

Example:
  tripctl nodes add --trip <id> --name "Palace Museum" --type attraction --day 1 --lng 116.397 --lat 39.918`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			node := domain.Node{
				Name:      opts.Name,
				Type:      domain.NodeType(opts.Type),
				Day:       opts.Day,
				Order:     opts.Order,
				Location:  domain.Location{Lng: opts.Lng, Lat: opts.Lat, Address: opts.Address},
				StartTime: opts.StartTime,
				Notes:     opts.Notes,
			}
			if cmd.Flags().Changed("duration") {
				node.Duration = &opts.Duration
			}
			if cmd.Flags().Changed("cost") {
				node.Cost = &opts.Cost
			}

			s, err := openSession(cmd.Context(), root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()
			if _, err := selectTrip(cmd.Context(), s, nodeOpts.Trip); err != nil {
				return err
			}

			created, err := s.nodes.Add(cmd.Context(), node)
			if err != nil {
				return err
			}
			return printer{root.Format, cmd.OutOrStdout()}.node(created)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "node name (required)")
	cmd.Flags().StringVar(&opts.Type, "type", string(domain.NodeAttraction), "attraction|food|hotel|shopping|other")
	cmd.Flags().IntVar(&opts.Day, "day", 1, "trip day, starting at 1")
	cmd.Flags().IntVar(&opts.Order, "order", 0, "position within the day (0 appends)")
	cmd.Flags().Float64Var(&opts.Lng, "lng", 0, "longitude")
	cmd.Flags().Float64Var(&opts.Lat, "lat", 0, "latitude")
	cmd.Flags().StringVar(&opts.Address, "address", "", "address")
	cmd.Flags().StringVar(&opts.StartTime, "start-time", "", "planned start, HH:MM")
	cmd.Flags().IntVar(&opts.Duration, "duration", 0, "planned minutes")
	cmd.Flags().Float64Var(&opts.Cost, "cost", 0, "expected cost")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "notes")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newNodesRmCommand(root *RootOptions, nodeOpts *NodeOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <node-id>",
		Short: "Remove a node; the rest of the day keeps its order values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()
			if _, err := selectTrip(cmd.Context(), s, nodeOpts.Trip); err != nil {
				return err
			}

			if err := s.nodes.Delete(cmd.Context(), id); err != nil {
				return err
			}
			if root.Format == "json" {
				return printer{root.Format, cmd.OutOrStdout()}.printJSON(map[string]string{"deleted": id.String()})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}
}

func newNodesMoveCommand(root *RootOptions, nodeOpts *NodeOptions) *cobra.Command {
	var day int

	cmd := &cobra.Command{
		Use:   "move <node-id>...",
		Short: "Reorder a day",
		Long: `Reorder a day by listing every node id of that day in the new order.
Orders are renumbered 1..n.

Example:
  tripctl nodes move --trip <id> --day 1 <cafe-id> <museum-id>`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uuid.UUID, len(args))
			for i, a := range args {
				id, err := parseID(a)
				if err != nil {
					return err
				}
				ids[i] = id
			}

			s, err := openSession(cmd.Context(), root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()
			tripID, err := selectTrip(cmd.Context(), s, nodeOpts.Trip)
			if err != nil {
				return err
			}

			if _, err := s.nodes.ReorderDay(cmd.Context(), day, ids); err != nil {
				return err
			}
			plans, err := s.trips.Days(cmd.Context(), tripID)
			if err != nil {
				return err
			}
			return printer{root.Format, cmd.OutOrStdout()}.days(plans[day-1 : day])
		},
	}

	cmd.Flags().IntVar(&day, "day", 1, "trip day to reorder")
	return cmd
}
