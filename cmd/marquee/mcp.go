package main

import (
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/marquee/internal/config"
	mcpserver "github.com/vadimtrunov/marquee/internal/mcp"
)

// newMCPServeCmd returns the hidden "mcp-serve" subcommand.
// It starts an MCP server over stdin/stdout exposing the catalog as tools.
func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "mcp-serve",
		Short:  "Start MCP server over stdio",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			// stdout carries the protocol; logs go to stderr.
			logger := config.SetupLogger(cfg.App.LogLevel, nil)
			catalog, err := newCatalog(cfg, logger)
			if err != nil {
				return err
			}

			srv := mcpserver.NewServer(mcpserver.Deps{
				Catalog: catalog,
				Format:  newFormatter(cfg),
			}, version, logger)
			return srv.ServeStdio(cmd.Context())
		},
	}
}
