package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SuperSnake427/DosecheckDashboard/internal/charts"
	"github.com/SuperSnake427/DosecheckDashboard/internal/validation"
)

func newRenderCmd(opts *globalOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Build the dashboard once and write it as a standalone HTML page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, done, err := opts.application()
			if err != nil {
				return err
			}
			defer done()

			dash, err := a.Dashboard.Build(cmd.Context(), true)
			if err != nil {
				return err
			}

			if err := validation.NewFileValidator(opts.logger).ValidateOutputDirectory(filepath.Dir(out)); err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := charts.RenderPage(f, dash); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			opts.logger.InfoContext(cmd.Context(), "dashboard rendered",
				slog.String("file", out),
				slog.String("snapshot_id", dash.SnapshotID))
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "dosecheck.html", "output HTML file")
	return cmd
}
