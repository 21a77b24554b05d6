package telegram

import (
	"strings"

	"github.com/vadimtrunov/marquee/internal/format"
	"github.com/vadimtrunov/marquee/internal/tmdb"
)

// mdV2Replacer escapes special characters for Telegram MarkdownV2.
var mdV2Replacer = strings.NewReplacer(
	`\`, `\\`,
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMdV2 escapes a string for safe use in Telegram MarkdownV2.
func EscapeMdV2(s string) string {
	return mdV2Replacer.Replace(s)
}

// FormatBold returns MarkdownV2 bold text.
func FormatBold(s string) string {
	return "*" + EscapeMdV2(s) + "*"
}

// FormatItalic returns MarkdownV2 italic text.
func FormatItalic(s string) string {
	return "_" + EscapeMdV2(s) + "_"
}

// renderDetails renders the detail view as MarkdownV2.
func renderDetails(f *format.Formatter, d *tmdb.MovieDetails) string {
	var sb strings.Builder
	line := func(s string) {
		sb.WriteString(s)
		sb.WriteByte('\n')
	}

	line(FormatBold(d.Title))
	if d.ReleaseDate != "" {
		line(FormatItalic(d.ReleaseDate))
	}
	line(EscapeMdV2("⭐ " + f.Rating(d.VoteAverage) + " " + f.Votes(d.VoteCount)))
	if d.Runtime > 0 {
		line(EscapeMdV2(f.Runtime(d.Runtime)))
	}
	if len(d.Genres) > 0 {
		line(EscapeMdV2(format.Genres(d.Genres, " · ")))
	}

	line("")
	line(FormatBold(f.T(format.MsgOverview)))
	line(EscapeMdV2(f.Overview(d.Overview)))

	line("")
	line(FormatBold(f.T(format.MsgPopularity)) + " " + EscapeMdV2(f.Popularity(d.Popularity)))
	line(FormatBold(f.T(format.MsgRating)) + " " + EscapeMdV2(f.Rating(d.VoteAverage)))
	line(FormatBold(f.T(format.MsgVoteCount)) + " " + EscapeMdV2(f.Count(d.VoteCount)))

	if d.Budget > 0 {
		line("")
		line(FormatBold(f.T(format.MsgProduction)))
		line(EscapeMdV2(f.T(format.MsgBudget) + " " + f.Currency(d.Budget)))
		if d.Revenue > 0 {
			line(EscapeMdV2(f.T(format.MsgRevenue) + " " + f.Currency(d.Revenue)))
		}
	}

	if len(d.ProductionCompanies) > 0 {
		line("")
		line(FormatBold(f.T(format.MsgCompanies)))
		for _, c := range d.ProductionCompanies {
			line(EscapeMdV2("• " + c.Name))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
