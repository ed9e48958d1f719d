package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	As     string
	Output string
}

func newExportCommand(root *RootOptions) *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every trip as flat rows",
		Long: `Export one row per node of every trip.

Example:
  tripctl export --as csv -o trips.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := export.ParseFormat(opts.As)
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()

			var w io.Writer = cmd.OutOrStdout()
			if opts.Output != "" {
				f, err := os.Create(opts.Output)
				if err != nil {
					return fmt.Errorf("create %s: %w", opts.Output, err)
				}
				defer f.Close()
				w = f
			}
			return export.Write(w, format, s.export.Export(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "json", "export encoding (json|csv|yaml)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
