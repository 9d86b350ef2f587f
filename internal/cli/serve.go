package cli

import (
	"github.com/spf13/cobra"

	"github.com/dnaconvert/dnaconvert/internal/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion API",
		Long: `Run the HTTP conversion API.

Endpoints:
  GET  /api/formats         list the supported formats
  GET  /api/version         build information
  POST /api/convert         convert JSON-posted content
  POST /api/convert/upload  convert uploaded files into a zip archive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return server.New(c.Config, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")

	return cmd
}
