package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/trackmysleep/internal/database/repository"
	"github.com/jask/trackmysleep/internal/export"
	"github.com/jask/trackmysleep/internal/service"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Add the nights from a JSON export",
		Long: `Import appends the closed nights of a file written by "trackmysleep export".
Nights get new ids; open nights in the file are skipped. Either every night is
imported or none is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := export.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read export: %w", err)
			}

			e, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			if s := e.tracker.State(); s.Tonight != nil {
				return fmt.Errorf("night #%d is being tracked, stop it before importing", s.Tonight.ID)
			}
			nights := make([]repository.Night, 0, len(recs))
			for _, r := range recs {
				nights = append(nights, r.Night())
			}
			imp := &service.ImportService{DB: e.db, Nights: e.nights, Log: e.log.WithField("component", "import")}
			res, err := imp.Import(cmd.Context(), nights)
			if err != nil {
				return err
			}
			if err := e.tracker.Refresh(cmd.Context()); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Imported %d nights (%d open skipped), %d stored\n", res.Imported, res.Skipped, res.Total)
			return nil
		},
	}
}
