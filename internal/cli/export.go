package cli

import (
	"github.com/spf13/cobra"

	"github.com/jask/trackmysleep/internal/export"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Write every night to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			nights := e.tracker.State().Nights
			if err := export.WriteFile(args[0], nights); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Exported %d nights to %s\n", len(nights), args[0])
			return nil
		},
	}
}
