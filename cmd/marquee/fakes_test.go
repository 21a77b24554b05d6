package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vadimtrunov/marquee/internal/format"
	"github.com/vadimtrunov/marquee/internal/tmdb"
)

// fakeCatalog serves canned pages and details.
type fakeCatalog struct {
	mu           sync.Mutex
	pages        map[int]*tmdb.MoviesPage
	details      map[int]*tmdb.MovieDetails
	err          error
	popularCalls []int
	detailCalls  []int
	refreshes    int
}

// newFakeCatalog returns a catalog with total pages of 20 movies each.
// Movie ids are page*100+index.
func newFakeCatalog(total int) *fakeCatalog {
	c := &fakeCatalog{
		pages:   make(map[int]*tmdb.MoviesPage, total),
		details: map[int]*tmdb.MovieDetails{550: fightClub()},
	}
	for p := 1; p <= total; p++ {
		c.pages[p] = moviesPage(p, total, 20)
	}
	return c
}

func (c *fakeCatalog) PopularMovies(_ context.Context, page int) (*tmdb.MoviesPage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.popularCalls = append(c.popularCalls, page)
	if c.err != nil {
		return nil, c.err
	}
	p, ok := c.pages[page]
	if !ok {
		return nil, &tmdb.FetchError{Op: tmdb.OpPopular, Message: "failed to fetch popular movies", Err: errors.New("status 404")}
	}
	return p, nil
}

func (c *fakeCatalog) RefreshPopular(ctx context.Context) (*tmdb.MoviesPage, error) {
	c.mu.Lock()
	c.refreshes++
	c.mu.Unlock()
	return c.PopularMovies(ctx, 1)
}

func (c *fakeCatalog) refreshCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshes
}

func (c *fakeCatalog) MovieDetails(_ context.Context, id int) (*tmdb.MovieDetails, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detailCalls = append(c.detailCalls, id)
	if c.err != nil {
		return nil, c.err
	}
	d, ok := c.details[id]
	if !ok {
		return nil, &tmdb.FetchError{Op: tmdb.OpDetails, Message: "failed to fetch movie details", Err: errors.New("status 404")}
	}
	return d, nil
}

func (c *fakeCatalog) calls() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.popularCalls...)
}

func moviesPage(page, total, n int) *tmdb.MoviesPage {
	results := make([]tmdb.Movie, 0, n)
	for i := 1; i <= n; i++ {
		id := page*100 + i
		results = append(results, tmdb.Movie{
			ID:          id,
			Title:       fmt.Sprintf("Movie %d", id),
			ReleaseDate: "2024-01-02",
			VoteAverage: 7.25,
		})
	}
	return &tmdb.MoviesPage{Page: page, Results: results, TotalPages: total, TotalResults: total * n}
}

func fightClub() *tmdb.MovieDetails {
	return &tmdb.MovieDetails{
		Movie: tmdb.Movie{
			ID:           550,
			Title:        "Fight Club",
			Overview:     "A ticking-time-bomb insomniac and a slippery soap salesman.",
			PosterPath:   "/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg",
			BackdropPath: "/hZkgoQYus5vegHoetLkCJzb17zJ.jpg",
			ReleaseDate:  "1999-10-15",
			VoteAverage:  8.438,
			VoteCount:    26280,
			Popularity:   61.416,
		},
		Genres:              []tmdb.Genre{{ID: 18, Name: "Drama"}, {ID: 53, Name: "Thriller"}},
		Runtime:             139,
		ProductionCompanies: []tmdb.ProductionCompany{{ID: 508, Name: "Regency Enterprises"}},
		Budget:              63000000,
		Revenue:             100853753,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDeps(catalog movieCatalog) tuiDeps {
	return tuiDeps{
		ctx:       context.Background(),
		catalog:   catalog,
		format:    format.New("en-US"),
		threshold: 0.5,
		logger:    testLogger(),
	}
}

// runCmd executes cmd and any batched commands, returning their messages.
// Only use it on commands that do not sleep.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}
