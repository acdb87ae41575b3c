package commands

import (
	"canasim/internal/mcp"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := mcp.NewServer(cfg, Version)
			if err != nil {
				return err
			}
			return server.Serve(cmd.Context())
		},
	}
}
