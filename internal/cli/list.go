package cli

import (
	"github.com/spf13/cobra"

	"github.com/jask/trackmysleep/internal/export"
	"github.com/jask/trackmysleep/internal/report"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recorded nights, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			nights := e.tracker.State().Nights
			if asJSON {
				return export.Encode(cmd.OutOrStdout(), nights)
			}
			printf(cmd.OutOrStdout(), "%s", report.FormatNights(nights, e.cfg.UI.DateFormat, e.tz))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}
