package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/trackmysleep/internal/report"
	"github.com/jask/trackmysleep/internal/service"
)

func newStartCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start tracking a night",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := e.tracker.StartTracking(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Started night #%d at %s\n", n.ID, n.Start.In(e.tz).Format(e.cfg.UI.DateFormat))
			return nil
		},
	}
}

func newStopCmd(opts *rootOptions) *cobra.Command {
	var rating string
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop tracking the current night",
		Long: `Stop closes the night being tracked. Pass --rate to record how well you
slept in the same step; otherwise rate it later with "trackmysleep rate".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			quality := -1
			if rating != "" {
				q, err := report.ParseQuality(rating)
				if err != nil {
					return err
				}
				quality = q
			}

			e, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			out := cmd.OutOrStdout()
			n, err := e.tracker.StopTracking(cmd.Context())
			if errors.Is(err, service.ErrNoOpenNight) {
				return fmt.Errorf("nothing to stop, run \"trackmysleep start\" first")
			}
			if err != nil {
				return err
			}
			printf(out, "Stopped night #%d, slept %s\n", n.ID, report.FormatDuration(n.Duration()))

			// the quality screen of the TUI, answered from the flag
			ev, ok := awaitEvent(e.tracker, service.EventNavigateToQuality)
			if !ok {
				return nil
			}
			if quality < 0 {
				printf(out, "Rate it with: trackmysleep rate %d <0-5 or label>\n", ev.Night.ID)
				return nil
			}
			rated, err := e.quality.SetQuality(cmd.Context(), ev.Night.ID, quality)
			if err != nil {
				return err
			}
			printf(out, "Rated night #%d %s\n", rated.ID, report.QualityString(rated.Quality))
			printf(out, "%s\n", report.Summary(rated, e.cfg.UI.DateFormat, e.tz))
			return nil
		},
	}
	cmd.Flags().StringVar(&rating, "rate", "", "quality for the night: 0-5 or a label such as \"pretty good\"")
	return cmd
}

// awaitEvent takes the next pending event of kind. Events are emitted before
// the operation returns, so a short wait is enough.
func awaitEvent(tr *service.Tracker, kind service.EventKind) (service.Event, bool) {
	timeout := time.After(time.Second)
	for {
		select {
		case ev, ok := <-tr.Events():
			if !ok {
				return service.Event{}, false
			}
			if ev.Kind == kind {
				return ev, true
			}
		case <-timeout:
			return service.Event{}, false
		}
	}
}
