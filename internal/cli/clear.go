package cli

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/trackmysleep/internal/service"
	"github.com/jask/trackmysleep/internal/tui"
)

func newClearCmd(opts *rootOptions) *cobra.Command {
	var (
		yes    bool
		vacuum bool
	)
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded night",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !yes {
				printf(out, "Delete all nights? [y/N] ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					printf(out, "Aborted\n")
					return nil
				}
			}

			e, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.tracker.Clear(cmd.Context()); err != nil {
				return err
			}
			if _, ok := awaitEvent(e.tracker, service.EventShowSnackbar); ok {
				printf(out, "%s\n", tui.ClearedMessage)
			}
			if vacuum {
				maint := &service.MaintenanceService{DB: e.db}
				if err := maint.Vacuum(cmd.Context()); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&vacuum, "vacuum", false, "compact the database file afterwards")
	return cmd
}
