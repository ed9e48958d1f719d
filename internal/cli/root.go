// Package cli implements tripctl, a command-line client that edits the same
// SQLite snapshot the API server uses.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/repo"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DB     string // SQLite file
	Key    string // blob key
	Format string // "text" | "json"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root tripctl command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "tripctl",
		Short:         "Plan trips from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DB, "db", "data/trips.db", "path to the SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Key, "key", repo.DefaultKey, "storage key of the trip snapshot")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(newTripsCommand(opts))
	cmd.AddCommand(newNodesCommand(opts))
	cmd.AddCommand(newDaysCommand(opts))
	cmd.AddCommand(newExportCommand(opts))

	return cmd
}
