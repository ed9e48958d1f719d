package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/domain"
)

func newTripsCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "List, create, show and delete trips",
	}
	cmd.AddCommand(newTripsListCommand(root))
	cmd.AddCommand(newTripsCreateCommand(root))
	cmd.AddCommand(newTripsShowCommand(root))
	cmd.AddCommand(newTripsDeleteCommand(root))
	return cmd
}

func newTripsListCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()

			return printer{root.Format, cmd.OutOrStdout()}.trips(s.trips.List(cmd.Context()))
		},
	}
}

// TripCreateOptions holds flags for trips create.
type TripCreateOptions struct {
	Title       string
	Description string
	Start       string
	Days        int
	Budget      float64
}

func newTripsCreateCommand(root *RootOptions) *cobra.Command {
	opts := &TripCreateOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a trip",
		Long: `Create a trip and make it the current trip.

Example:
  tripctl trips create --title "Beijing Weekend" --start 2024-03-01 --days 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseDate(opts.Start)
			if err != nil {
				return err
			}
			trip := domain.Trip{
				Title:       opts.Title,
				Description: opts.Description,
				StartDate:   start,
				Days:        opts.Days,
			}
			if cmd.Flags().Changed("budget") {
				trip.TotalBudget = &opts.Budget
			}

			s, err := openSession(cmd.Context(), root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()

			created, err := s.trips.Create(cmd.Context(), trip)
			if err != nil {
				return err
			}
			return printer{root.Format, cmd.OutOrStdout()}.trip(created)
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "trip title (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "free-form description")
	cmd.Flags().StringVar(&opts.Start, "start", "", "first day, YYYY-MM-DD (required)")
	cmd.Flags().IntVar(&opts.Days, "days", 1, "number of days")
	cmd.Flags().Float64Var(&opts.Budget, "budget", 0, "total budget")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newTripsShowCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trip-id>",
		Short: "Show one trip",
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

			trip, err := s.trips.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printer{root.Format, cmd.OutOrStdout()}.trip(trip)
		},
	}
}

func newTripsDeleteCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trip-id>",
		Short: "Delete a trip with all its nodes and routes",
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

			if err := s.trips.Delete(cmd.Context(), id); err != nil {
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

func newDaysCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "days <trip-id>",
		Short: "Show a trip day by day",
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

			plans, err := s.trips.Days(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printer{root.Format, cmd.OutOrStdout()}.days(plans)
		},
	}
}

func parseDate(s string) (openapi_types.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return openapi_types.Date{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", domain.ErrValidation, s)
	}
	return openapi_types.Date{Time: t}, nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a valid id", domain.ErrValidation, s)
	}
	return id, nil
}
