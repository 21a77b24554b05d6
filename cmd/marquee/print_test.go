package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/vadimtrunov/marquee/internal/format"
	"github.com/vadimtrunov/marquee/internal/nav"
	"github.com/vadimtrunov/marquee/internal/tmdb"
)

func TestRenderDetails_English(t *testing.T) {
	out := renderDetails(format.New("en-US"), fightClub(), 0)

	for _, want := range []string{
		"https://image.tmdb.org/t/p/w1280/hZkgoQYus5vegHoetLkCJzb17zJ.jpg",
		"https://image.tmdb.org/t/p/w500/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg",
		"Fight Club",
		"⭐ 8.4",
		"(26,280 votes)",
		"2h 19m",
		"Drama · Thriller",
		"Popularity 61",
		"Votes 26,280",
		"Budget: $63,000,000",
		"Revenue: $100,853,753",
		"• Regency Enterprises",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDetails_Korean(t *testing.T) {
	out := renderDetails(format.New("ko-KR"), fightClub(), 0)

	for _, want := range []string{"2시간 19분", "US$63,000,000", "제작비:", "줄거리"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDetails_OmitsUnreportedSections(t *testing.T) {
	d := fightClub()
	d.Runtime = 0
	d.Budget = 0
	d.Revenue = 5
	d.Genres = nil
	d.ProductionCompanies = nil
	d.Overview = "  "
	d.PosterPath = ""
	d.BackdropPath = ""

	out := renderDetails(format.New("en-US"), d, 0)

	for _, unwanted := range []string{"Budget:", "Revenue:", "Production Companies", "0m"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output should not contain %q:\n%s", unwanted, out)
		}
	}
	for _, want := range []string{"No overview available.", tmdb.PosterPlaceholder, tmdb.BackdropPlaceholder} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunPopular_SinglePage(t *testing.T) {
	catalog := newFakeCatalog(3)
	var buf bytes.Buffer

	err := runPopular(context.Background(), &buf, catalog, format.New("en"), popularOptions{page: 2})
	if err != nil {
		t.Fatalf("runPopular: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Popular Movies", "Movie 201", "Movie 220", "#201", "Page 2 of 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := catalog.calls(); len(got) != 1 || got[0] != 2 {
		t.Errorf("requested pages = %v, want [2]", got)
	}
}

func TestRunPopular_CollectsPagesInOrder(t *testing.T) {
	catalog := newFakeCatalog(5)
	var buf bytes.Buffer

	err := runPopular(context.Background(), &buf, catalog, format.New("en"), popularOptions{pages: 3, asJSON: true})
	if err != nil {
		t.Fatalf("runPopular: %v", err)
	}

	var page tmdb.MoviesPage
	if err := json.Unmarshal(buf.Bytes(), &page); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if page.Page != 3 || page.TotalPages != 5 || len(page.Results) != 60 {
		t.Fatalf("page=%d total=%d results=%d", page.Page, page.TotalPages, len(page.Results))
	}
	for i, want := range []int{101, 201, 301} {
		if got := page.Results[i*20].ID; got != want {
			t.Errorf("results[%d].ID = %d, want %d", i*20, got, want)
		}
	}
}

func TestRunPopular_Error(t *testing.T) {
	catalog := newFakeCatalog(1)
	catalog.err = &tmdb.FetchError{Op: tmdb.OpPopular, Message: "failed to fetch popular movies", Err: errors.New("timeout")}

	err := runPopular(context.Background(), &bytes.Buffer{}, catalog, format.New("en"), popularOptions{page: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	var fetchErr *tmdb.FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("error should wrap FetchError: %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Unable to load movies.") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestRunMovie(t *testing.T) {
	catalog := newFakeCatalog(1)

	t.Run("formatted", func(t *testing.T) {
		var buf bytes.Buffer
		if err := runMovie(context.Background(), &buf, catalog, format.New("en"), 550, false); err != nil {
			t.Fatalf("runMovie: %v", err)
		}
		if !strings.Contains(buf.String(), "Fight Club") {
			t.Errorf("output missing title:\n%s", buf.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := runMovie(context.Background(), &buf, catalog, format.New("en"), 550, true); err != nil {
			t.Fatalf("runMovie: %v", err)
		}
		var d tmdb.MovieDetails
		if err := json.Unmarshal(buf.Bytes(), &d); err != nil {
			t.Fatalf("decode output: %v", err)
		}
		if d.ID != 550 || d.Runtime != 139 || d.Budget != 63000000 {
			t.Errorf("decoded %+v", d)
		}
	})

	t.Run("not found", func(t *testing.T) {
		err := runMovie(context.Background(), &bytes.Buffer{}, catalog, format.New("en"), 999, false)
		if err == nil || !strings.HasPrefix(err.Error(), "Unable to load movie details.") {
			t.Errorf("err = %v", err)
		}
	})
}

func TestMovieIDArg(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"550", 550, false},
		{"/movie/550", 550, false},
		{"movie/550/", 550, false},
		{"abc", 0, true},
		{"0", 0, true},
		{"/movie/abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := movieIDArg(tt.arg)
			if tt.wantErr {
				if !errors.Is(err, nav.ErrInvalidMovieID) {
					t.Errorf("err = %v, want ErrInvalidMovieID", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("movieIDArg(%q) = %d, %v", tt.arg, got, err)
			}
		})
	}
}
