package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/internal/api"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long: `Serve solve, animate and graph requests over HTTP.

Routes:
  POST /v1/solve    solve a scene and render its start state
  POST /v1/animate  sample the transition of a scene
  GET  /v1/graph    dependency graph of a scene stored by /v1/solve
  GET  /healthz     liveness and build information

The server shares the cache selected by --cache; point several instances
at one redis:// or mongodb:// backend to share results. It stops
gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			printInfo("Listening on %s", addr)
			c.Logger.Info("serving", "addr", addr, "cache", c.cacheTarget)
			if err := api.New(runner, c.Logger).ListenAndServe(ctx, addr); err != nil {
				return err
			}
			printSuccess("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", api.DefaultAddr, "listen address")

	return cmd
}
