package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/marquee/internal/format"
	"github.com/vadimtrunov/marquee/internal/tmdb"
)

// renderDetails renders the detail page. width wraps the overview; 0 leaves
// it unwrapped.
func renderDetails(f *format.Formatter, d *tmdb.MovieDetails, width int) string {
	var sb strings.Builder
	line := func(s string) {
		sb.WriteString(s)
		sb.WriteByte('\n')
	}
	field := func(label, value string) {
		line(styleDim.Render(label) + " " + value)
	}

	line(styleDim.Render(tmdb.BackdropURL(d.BackdropPath)))
	line(styleDim.Render(tmdb.PosterURL(d.PosterPath)))
	line("")

	line(styleTitle.Render(d.Title))
	if d.ReleaseDate != "" {
		line(styleDim.Render(d.ReleaseDate))
	}
	line(styleRating.Render("⭐ "+f.Rating(d.VoteAverage)) + " " + styleDim.Render(f.Votes(d.VoteCount)))
	if d.Runtime > 0 {
		line(f.Runtime(d.Runtime))
	}
	if len(d.Genres) > 0 {
		line(styleInfo.Render(format.Genres(d.Genres, " · ")))
	}

	line("")
	line(styleSection.Render(f.T(format.MsgOverview)))
	line(wrap(f.Overview(d.Overview), width))

	line("")
	field(f.T(format.MsgPopularity), f.Popularity(d.Popularity))
	field(f.T(format.MsgRating), f.Rating(d.VoteAverage))
	field(f.T(format.MsgVoteCount), f.Count(d.VoteCount))

	if d.Budget > 0 {
		line("")
		line(styleSection.Render(f.T(format.MsgProduction)))
		field(f.T(format.MsgBudget), f.Currency(d.Budget))
		if d.Revenue > 0 {
			field(f.T(format.MsgRevenue), f.Currency(d.Revenue))
		}
	}

	if len(d.ProductionCompanies) > 0 {
		line("")
		line(styleSection.Render(f.T(format.MsgCompanies)))
		for _, c := range d.ProductionCompanies {
			line("• " + c.Name)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// wrap soft-wraps text to width columns.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

// printMovies prints one line per movie, numbered from start.
func printMovies(w io.Writer, f *format.Formatter, movies []tmdb.Movie, start int) {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	for i, m := range movies {
		date := m.ReleaseDate
		if date == "" {
			date = f.T(format.MsgUnknown)
		}
		fmt.Fprintf(w, "%s %s  %s  %s  %s\n",
			label.Render(strconv.Itoa(start+i)+"."),
			styleTitle.Render(m.Title),
			styleDim.Render(date),
			styleRating.Render("⭐ "+f.Rating(m.VoteAverage)),
			styleDim.Render("#"+strconv.Itoa(m.ID)),
		)
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
