package browse

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vadimtrunov/marquee/internal/tmdb"
)

// Fetcher fetches one page of popular movies.
type Fetcher interface {
	PopularMovies(ctx context.Context, page int) (*tmdb.MoviesPage, error)
}

// DefaultConcurrency bounds the parallel page fetches made by Collect.
const DefaultConcurrency = 4

// Collect loads pages 1..pages and returns a Pager holding them in page order.
// Page 1 is fetched first to learn the page count; the remaining pages are
// fetched concurrently and applied in ascending order. Any failure aborts
// the whole collection.
func Collect(ctx context.Context, f Fetcher, pages, concurrency int, opts Options) (*Pager, error) {
	if pages < 1 {
		pages = 1
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	p := New(opts)
	req := p.Start()
	first, err := f.PopularMovies(ctx, req.Page)
	if err != nil {
		p.Fail(req.Token, err)
		return p, err
	}
	p.Apply(req.Token, first)

	if first.TotalPages > 0 && pages > first.TotalPages {
		pages = first.TotalPages
	}
	if pages == 1 {
		return p, nil
	}

	results := make([]*tmdb.MoviesPage, pages+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for n := 2; n <= pages; n++ {
		g.Go(func() error {
			resp, err := f.PopularMovies(gctx, n)
			if err != nil {
				return fmt.Errorf("page %d: %w", n, err)
			}
			results[n] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return p, err
	}

	for n := 2; n <= pages; n++ {
		req, ok := p.LoadMore()
		if !ok {
			break
		}
		if req.Page != n || results[n] == nil {
			p.Cancel()
			return p, fmt.Errorf("page %d missing from collection", n)
		}
		p.Apply(req.Token, results[n])
	}
	return p, nil
}
