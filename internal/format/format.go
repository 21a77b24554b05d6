// Package format renders movie values and UI strings for a display language.
//
// Korean is the default and follows the conventions of the TMDb ko-KR
// catalog; English is supported as a fallback for every other language tag.
package format

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/vadimtrunov/marquee/internal/tmdb"
)

var supported = []language.Tag{language.Korean, language.English}

var matcher = language.NewMatcher(supported)

// Formatter formats values for one display language. It is safe for
// concurrent use.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Formatter for a BCP 47 tag such as "ko-KR" or "en-US".
// An empty or unparsable tag selects Korean.
func New(lang string) *Formatter {
	tag := language.Korean
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			_, idx, _ := matcher.Match(parsed)
			tag = supported[idx]
		}
	}
	return &Formatter{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messages)),
	}
}

// Language returns the matched display language.
func (f *Formatter) Language() language.Tag { return f.tag }

// IsKorean reports whether output is Korean.
func (f *Formatter) IsKorean() bool { return f.tag == language.Korean }

// T translates a UI message key and applies fmt-style arguments.
func (f *Formatter) T(key string, args ...any) string {
	return f.printer.Sprintf(key, args...)
}

// Currency formats a USD amount with digit grouping and no decimals.
// Zero means the value was not reported and renders as the unknown text.
func (f *Formatter) Currency(amount int64) string {
	if amount == 0 {
		return f.T(MsgUnknown)
	}
	symbol := "$"
	if f.IsKorean() {
		symbol = "US$"
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + symbol + f.printer.Sprintf("%d", amount)
}

// Runtime formats minutes as hours and minutes, or minutes alone below an hour.
func (f *Formatter) Runtime(minutes int) string {
	hours, mins := minutes/60, minutes%60
	if hours > 0 {
		return f.T(MsgHoursMinutes, hours, mins)
	}
	return f.T(MsgMinutes, mins)
}

// Count formats an integer with digit grouping.
func (f *Formatter) Count(n int) string {
	return f.printer.Sprintf("%d", n)
}

// Rating formats a vote average with one decimal.
func (f *Formatter) Rating(v float64) string {
	return f.printer.Sprintf("%.1f", v)
}

// Popularity formats a popularity score with no decimals.
func (f *Formatter) Popularity(v float64) string {
	return f.printer.Sprintf("%.0f", v)
}

// Votes formats a vote count for display next to a rating.
func (f *Formatter) Votes(n int) string {
	return f.T(MsgVotes, f.Count(n))
}

// Overview returns the synopsis or the fallback text when it is blank.
func (f *Formatter) Overview(text string) string {
	if strings.TrimSpace(text) == "" {
		return f.T(MsgNoOverview)
	}
	return text
}

// Error returns a user-facing message for an error from the tmdb package.
func (f *Formatter) Error(err error) string {
	var fetchErr *tmdb.FetchError
	var decodeErr *tmdb.DecodeError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fetchErr):
		if fetchErr.Op == tmdb.OpDetails {
			return f.T(MsgDetailsFetchFailed)
		}
		return f.T(MsgPopularFetchFailed)
	case errors.As(err, &decodeErr):
		return f.T(MsgUnexpectedResponse)
	case errors.Is(err, tmdb.ErrInvalidMovieID):
		return f.T(MsgInvalidMovieID)
	default:
		return err.Error()
	}
}

// Genres joins genre names with a separator.
func Genres(genres []tmdb.Genre, sep string) string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, sep)
}

// UI message keys. The key is the English text.
const (
	MsgUnknown            = "Unknown"
	MsgAppTitle           = "Popular Movies"
	MsgLoadingMovies      = "Loading movies..."
	MsgLoadingDetails     = "Loading movie details..."
	MsgLoadingMore        = "Loading more..."
	MsgEndOfList          = "You've reached the end of the list."
	MsgListFailed         = "Unable to load movies."
	MsgDetailsFailed      = "Unable to load movie details."
	MsgMoreFailed         = "Could not load more movies. Try again."
	MsgRefreshFailed      = "Could not refresh the list. Press r to try again."
	MsgPopularFetchFailed = "Failed to fetch popular movies."
	MsgDetailsFetchFailed = "Failed to fetch movie details."
	MsgUnexpectedResponse = "Received an unexpected response from the movie service."
	MsgInvalidMovieID     = "Invalid movie id."
	MsgNoOverview         = "No overview available."
	MsgOverview           = "Overview"
	MsgGenres             = "Genres"
	MsgPopularity         = "Popularity"
	MsgRating             = "Rating"
	MsgVoteCount          = "Votes"
	MsgVotes              = "(%s votes)"
	MsgProduction         = "Production"
	MsgBudget             = "Budget:"
	MsgRevenue            = "Revenue:"
	MsgCompanies          = "Production Companies"
	MsgRuntime            = "Runtime"
	MsgReleaseDate        = "Release date"
	MsgHoursMinutes       = "%dh %dm"
	MsgMinutes            = "%dm"
	MsgMore               = "More"
	MsgListHelp           = "↑/↓/←/→ move • enter open • r refresh • q quit"
	MsgDetailHelp         = "↑/↓ scroll • esc back • g home • q quit"
	MsgPageOf             = "Page %d of %d"
)

var korean = map[string]string{
	MsgUnknown:            "정보 없음",
	MsgAppTitle:           "인기 영화",
	MsgLoadingMovies:      "영화 목록을 불러오는 중...",
	MsgLoadingDetails:     "영화 정보를 불러오는 중...",
	MsgLoadingMore:        "더 불러오는 중...",
	MsgEndOfList:          "마지막 영화입니다.",
	MsgListFailed:         "영화 목록을 불러올 수 없습니다.",
	MsgDetailsFailed:      "영화 정보를 불러올 수 없습니다.",
	MsgMoreFailed:         "영화를 더 불러오지 못했습니다. 다시 시도해 주세요.",
	MsgRefreshFailed:      "목록을 새로고침하지 못했습니다. r 키로 다시 시도해 주세요.",
	MsgPopularFetchFailed: "영화 목록을 가져오는데 실패했습니다.",
	MsgDetailsFetchFailed: "영화 상세 정보를 가져오는데 실패했습니다.",
	MsgUnexpectedResponse: "영화 서비스에서 예상하지 못한 응답을 받았습니다.",
	MsgInvalidMovieID:     "잘못된 영화 ID입니다.",
	MsgNoOverview:         "줄거리 정보가 없습니다.",
	MsgOverview:           "줄거리",
	MsgGenres:             "장르",
	MsgPopularity:         "인기도",
	MsgRating:             "평점",
	MsgVoteCount:          "평가 수",
	MsgVotes:              "(%s명)",
	MsgProduction:         "제작 정보",
	MsgBudget:             "제작비:",
	MsgRevenue:            "흥행 수익:",
	MsgCompanies:          "제작사",
	MsgRuntime:            "상영 시간",
	MsgReleaseDate:        "개봉일",
	MsgHoursMinutes:       "%d시간 %d분",
	MsgMinutes:            "%d분",
	MsgMore:               "더 보기",
	MsgListHelp:           "↑/↓/←/→ 이동 • enter 열기 • r 새로고침 • q 종료",
	MsgDetailHelp:         "↑/↓ 스크롤 • esc 뒤로 • g 홈 • q 종료",
	MsgPageOf:             "%d / %d 페이지",
}

var messages = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range korean {
		if err := b.SetString(language.Korean, key, msg); err != nil {
			panic("format: invalid catalog entry " + key + ": " + err.Error())
		}
	}
	return b
}
