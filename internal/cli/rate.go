package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jask/trackmysleep/internal/report"
)

func newRateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <night-id> <quality>",
		Short: "Rate how well you slept",
		Long: `Rate sets the quality of a night. Quality is a number from 0 (very bad)
to 5 (excellent) or one of the labels: very bad, poor, so-so, ok, pretty good,
excellent. Small typos in labels are tolerated.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("night id %q: %w", args[0], err)
			}
			quality, err := report.ParseQuality(args[1])
			if err != nil {
				return err
			}

			e, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := e.quality.SetQuality(cmd.Context(), id, quality)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Rated night #%d %s\n", n.ID, report.QualityString(n.Quality))
			printf(cmd.OutOrStdout(), "%s\n", report.Summary(n, e.cfg.UI.DateFormat, e.tz))
			return nil
		},
	}
}
