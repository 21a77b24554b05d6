package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/marquee/internal/config"
	"github.com/vadimtrunov/marquee/internal/format"
	"github.com/vadimtrunov/marquee/internal/nav"
)

func newMovieCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "movie <id|path>",
		Short: "Print the details of one movie",
		Example: `  marquee movie 550
  marquee movie /movie/550 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := movieIDArg(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			logger := config.SetupLogger(cfg.App.LogLevel, nil)
			catalog, err := newCatalog(cfg, logger)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			return runMovie(ctx, cmd.OutOrStdout(), catalog, newFormatter(cfg), id, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON payload")
	return cmd
}

// movieIDArg accepts a bare id or a detail path such as /movie/550.
func movieIDArg(arg string) (int, error) {
	if dest, err := nav.Resolve(arg); err == nil && dest.Screen == nav.ScreenDetail {
		return dest.MovieID, nil
	}
	return nav.ParseMovieID(arg)
}

// runMovie fetches and prints one movie.
func runMovie(ctx context.Context, w io.Writer, catalog movieCatalog, f *format.Formatter, id int, asJSON bool) error {
	details, err := catalog.MovieDetails(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", f.T(format.MsgDetailsFailed), err)
	}
	if asJSON {
		return printJSON(w, details)
	}
	fmt.Fprintln(w, renderDetails(f, details, 0))
	return nil
}
