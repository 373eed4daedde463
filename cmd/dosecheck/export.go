package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SuperSnake427/DosecheckDashboard/internal/validation"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the summary CSVs, the grouped table and the workbook",
		Long: `export rebuilds the dashboard from a fresh snapshot and writes
dosecheck_frequency.csv, dosecheck_timeseries.csv, dosecheck_sites.csv,
dosecheck_grouped.csv and dosecheck.xlsx to the exports directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir != "" {
				if err := validation.NewFileValidator(opts.logger).ValidateOutputDirectory(dir); err != nil {
					return err
				}
				opts.cfg.Paths.ExportsDir = dir
			}

			a, done, err := opts.application()
			if err != nil {
				return err
			}
			defer done()

			files, err := a.Exports.ExportAll(cmd.Context(), true)
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "exports directory (default: paths.exports_dir)")
	return cmd
}
