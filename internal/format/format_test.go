package format

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/vadimtrunov/marquee/internal/tmdb"
)

func TestNew_MatchesLanguage(t *testing.T) {
	tests := []struct {
		lang string
		want language.Tag
	}{
		{"", language.Korean},
		{"ko-KR", language.Korean},
		{"ko", language.Korean},
		{"en-US", language.English},
		{"en", language.English},
		{"not a tag!", language.Korean},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.lang).Language())
		})
	}
}

func TestCurrency(t *testing.T) {
	ko := New("ko-KR")
	en := New("en-US")

	assert.Equal(t, "정보 없음", ko.Currency(0))
	assert.Equal(t, "US$1,000,000", ko.Currency(1000000))
	assert.Equal(t, "US$63,000,000", ko.Currency(63000000))

	assert.Equal(t, "Unknown", en.Currency(0))
	assert.Equal(t, "$1,000,000", en.Currency(1000000))
	assert.Equal(t, "$999", en.Currency(999))
	assert.Equal(t, "-$5,000", en.Currency(-5000))
}

func TestRuntime(t *testing.T) {
	ko := New("ko-KR")
	en := New("en-US")

	tests := []struct {
		minutes int
		ko, en  string
	}{
		{125, "2시간 5분", "2h 5m"},
		{45, "45분", "45m"},
		{60, "1시간 0분", "1h 0m"},
		{0, "0분", "0m"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.minutes), func(t *testing.T) {
			assert.Equal(t, tt.ko, ko.Runtime(tt.minutes))
			assert.Equal(t, tt.en, en.Runtime(tt.minutes))
		})
	}
}

func TestNumbers(t *testing.T) {
	f := New("en-US")

	assert.Equal(t, "27,042", f.Count(27042))
	assert.Equal(t, "7", f.Count(7))
	assert.Equal(t, "8.4", f.Rating(8.438))
	assert.Equal(t, "0.0", f.Rating(0))
	assert.Equal(t, "1,235", f.Popularity(1234.6))
	assert.Equal(t, "(27,042 votes)", f.Votes(27042))
	assert.Equal(t, "(27,042명)", New("ko-KR").Votes(27042))
}

func TestOverview(t *testing.T) {
	f := New("ko-KR")
	assert.Equal(t, "줄거리 정보가 없습니다.", f.Overview(""))
	assert.Equal(t, "줄거리 정보가 없습니다.", f.Overview("   "))
	assert.Equal(t, "A story.", f.Overview("A story."))

	assert.Equal(t, "No overview available.", New("en").Overview(""))
}

func TestT_FallsBackToKey(t *testing.T) {
	en := New("en-US")
	assert.Equal(t, "Popular Movies", en.T(MsgAppTitle))
	assert.Equal(t, "Page 2 of 10", en.T(MsgPageOf, 2, 10))

	ko := New("ko-KR")
	assert.Equal(t, "인기 영화", ko.T(MsgAppTitle))
	assert.Equal(t, "2 / 10 페이지", ko.T(MsgPageOf, 2, 10))
}

func TestCatalogCoversEveryKey(t *testing.T) {
	keys := []string{
		MsgUnknown, MsgAppTitle, MsgLoadingMovies, MsgLoadingDetails, MsgLoadingMore,
		MsgEndOfList, MsgListFailed, MsgDetailsFailed, MsgMoreFailed, MsgRefreshFailed, MsgPopularFetchFailed,
		MsgDetailsFetchFailed, MsgUnexpectedResponse, MsgInvalidMovieID, MsgNoOverview,
		MsgOverview, MsgGenres, MsgPopularity, MsgRating, MsgVoteCount, MsgVotes,
		MsgProduction, MsgBudget, MsgRevenue, MsgCompanies, MsgRuntime, MsgReleaseDate,
		MsgHoursMinutes, MsgMinutes, MsgMore, MsgListHelp, MsgDetailHelp, MsgPageOf,
	}
	for _, k := range keys {
		_, ok := korean[k]
		assert.True(t, ok, "missing Korean text for %q", k)
	}
}

func TestError(t *testing.T) {
	ko := New("ko-KR")
	en := New("en-US")

	popular := &tmdb.FetchError{Op: tmdb.OpPopular, Message: "failed", Err: errors.New("timeout")}
	details := &tmdb.FetchError{Op: tmdb.OpDetails, Message: "failed"}
	decode := &tmdb.DecodeError{Op: tmdb.OpDetails, Err: errors.New("bad json")}

	assert.Equal(t, "영화 목록을 가져오는데 실패했습니다.", ko.Error(popular))
	assert.Equal(t, "영화 상세 정보를 가져오는데 실패했습니다.", ko.Error(fmt.Errorf("load: %w", details)))
	assert.Equal(t, "Failed to fetch movie details.", en.Error(details))
	assert.Equal(t, "Received an unexpected response from the movie service.", en.Error(decode))
	assert.Equal(t, "Invalid movie id.", en.Error(tmdb.ErrInvalidMovieID))
	assert.Equal(t, "other", en.Error(errors.New("other")))
	assert.Empty(t, en.Error(nil))
}

func TestGenres(t *testing.T) {
	genres := []tmdb.Genre{{ID: 18, Name: "Drama"}, {ID: 53, Name: "Thriller"}}
	assert.Equal(t, "Drama, Thriller", Genres(genres, ", "))
	assert.Empty(t, Genres(nil, ", "))
}
