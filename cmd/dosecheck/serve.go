package main

import (
	"github.com/spf13/cobra"

	"github.com/SuperSnake427/DosecheckDashboard/internal/app"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard page, the JSON API and /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				opts.cfg.Server.Port = port
			}

			application, err := app.NewApplication(opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			if err := application.Preflight(cmd.Context()); err != nil {
				application.Shutdown(cmd.Context())
				return err
			}
			return application.Run()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP port")
	return cmd
}
