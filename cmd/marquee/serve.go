package main

import (
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/marquee/internal/config"
	"github.com/vadimtrunov/marquee/internal/web"
)

// newServeCmd returns the "serve" subcommand for the HTTP JSON surface.
func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the movie routes as JSON over HTTP",
		Long: "Serve GET / (popular list, ?page=N) and GET /movie/:movieId as JSON.\n" +
			"The address comes from --addr, web.addr or MARQUEE_WEB_ADDR.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") && cfg.Web != nil {
				addr = cfg.Web.Addr
			}
			return runServe(cfg, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", config.DefaultWebAddr, "listen address")
	return cmd
}

func runServe(cfg *config.Config, addr string) error {
	logger := config.SetupLogger(cfg.App.LogLevel, nil)
	catalog, err := newCatalog(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	srv := web.NewServer(addr, catalog, newFormatter(cfg), logger)
	return srv.Start(ctx)
}
