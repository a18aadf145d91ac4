package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/trackmysleep/internal/testdata"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo nights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--nights must be positive")
			}
			e, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			if s := e.tracker.State(); s.Tonight != nil {
				return fmt.Errorf("night #%d is being tracked, stop it before seeding", s.Tonight.ID)
			}
			nights, err := testdata.Seed(cmd.Context(), e.nights, time.Now(), count)
			if err != nil {
				return err
			}
			if err := e.tracker.Refresh(cmd.Context()); err != nil {
				return err
			}
			total, err := e.nights.Count(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Seeded %d nights, %d stored\n", len(nights), total)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "nights", 14, "how many nights to create")
	return cmd
}
