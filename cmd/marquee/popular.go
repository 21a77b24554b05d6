package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/marquee/internal/browse"
	"github.com/vadimtrunov/marquee/internal/config"
	"github.com/vadimtrunov/marquee/internal/format"
	"github.com/vadimtrunov/marquee/internal/tmdb"
)

type popularOptions struct {
	page     int
	pages    int
	asJSON   bool
	pagerOpt browse.Options
}

func newPopularCmd() *cobra.Command {
	var opts popularOptions
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "Print popular movies",
		Long: "Print one page of popular movies, or pages 1..N collected in order.\n" +
			"With --json the raw API payload is printed instead.",
		Example: `  marquee popular
  marquee popular --page 3
  marquee popular --pages 5 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.page < 1 {
				return fmt.Errorf("--page must be at least 1")
			}
			if opts.pages < 0 {
				return fmt.Errorf("--pages must not be negative")
			}
			if cmd.Flags().Changed("page") && opts.pages > 0 {
				return fmt.Errorf("--page and --pages cannot be combined")
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
			opts.pagerOpt = browseOptions(cfg)

			ctx, cancel := signalContext()
			defer cancel()
			return runPopular(ctx, cmd.OutOrStdout(), catalog, newFormatter(cfg), opts)
		},
	}
	cmd.Flags().IntVar(&opts.page, "page", 1, "page to print")
	cmd.Flags().IntVar(&opts.pages, "pages", 0, "collect pages 1..N in order")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the raw JSON payload")
	return cmd
}

// runPopular fetches and prints the requested pages.
func runPopular(ctx context.Context, w io.Writer, catalog movieCatalog, f *format.Formatter, opts popularOptions) error {
	if opts.pages > 0 {
		p, err := browse.Collect(ctx, catalog, opts.pages, browse.DefaultConcurrency, opts.pagerOpt)
		if err != nil {
			return fmt.Errorf("%s: %w", f.T(format.MsgListFailed), err)
		}
		if opts.asJSON {
			return printJSON(w, &tmdb.MoviesPage{
				Page:       p.Page(),
				Results:    p.Movies(),
				TotalPages: p.TotalPages(),
			})
		}
		fmt.Fprintln(w, styleHeader.Render(f.T(format.MsgAppTitle)))
		printMovies(w, f, p.Movies(), 1)
		fmt.Fprintln(w, styleDim.Render(f.T(format.MsgPageOf, p.Page(), p.TotalPages())))
		return nil
	}

	resp, err := catalog.PopularMovies(ctx, opts.page)
	if err != nil {
		return fmt.Errorf("%s: %w", f.T(format.MsgListFailed), err)
	}
	if opts.asJSON {
		return printJSON(w, resp)
	}

	fmt.Fprintln(w, styleHeader.Render(f.T(format.MsgAppTitle)))
	if len(resp.Results) == 0 {
		fmt.Fprintln(w, styleDim.Render(f.T(format.MsgEndOfList)))
		return nil
	}
	printMovies(w, f, resp.Results, 1)
	fmt.Fprintln(w, styleDim.Render(f.T(format.MsgPageOf, resp.Page, resp.TotalPages)))
	return nil
}
