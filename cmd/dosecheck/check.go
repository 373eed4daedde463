package main

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SuperSnake427/DosecheckDashboard/internal/validation"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load and clean the dataset, validate the grouping and report dropped rows",
		Long: `check runs the pipeline up to grouping without aggregating. It fails
when the source cannot be loaded, a check date is unparseable under the
strict date policy, a key repeats, or the grouping names a substance or
site column the sheet does not have. On success it prints the cleaning
report as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.NewFileValidator(opts.logger).ValidateSource(opts.cfg.Source.ID); err != nil {
				return err
			}

			a, done, err := opts.application()
			if err != nil {
				return err
			}
			defer done()

			report, err := a.Dashboard.Check(cmd.Context())
			if err != nil {
				return err
			}

			if report.RowsOut < report.RowsIn {
				opts.logger.WarnContext(cmd.Context(), "rows dropped while cleaning",
					slog.Int("missing_filename", report.DroppedMissingFilename),
					slog.Int("bad_date", report.DroppedBadDate))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
}
