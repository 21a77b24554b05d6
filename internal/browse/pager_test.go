package browse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadimtrunov/marquee/internal/tmdb"
)

func moviesPage(page, total int, ids ...int) *tmdb.MoviesPage {
	results := make([]tmdb.Movie, 0, len(ids))
	for _, id := range ids {
		results = append(results, tmdb.Movie{ID: id})
	}
	return &tmdb.MoviesPage{Page: page, Results: results, TotalPages: total}
}

func ids(movies []tmdb.Movie) []int {
	out := make([]int, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ID)
	}
	return out
}

func TestPager_InitialLoad(t *testing.T) {
	p := New(Options{})
	assert.Equal(t, Idle, p.State())

	req := p.Start()
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, LoadingInitial, p.State())

	require.True(t, p.Apply(req.Token, moviesPage(1, 10, 1, 2, 3)))
	assert.Equal(t, Idle, p.State())
	assert.Equal(t, 1, p.Page())
	assert.Equal(t, []int{1, 2, 3}, ids(p.Movies()))
	assert.NoError(t, p.Err())
}

func TestPager_PagesConcatenateInOrder(t *testing.T) {
	p := New(Options{})
	req := p.Start()
	require.True(t, p.Apply(req.Token, moviesPage(1, 5, 1, 2)))

	var want []int
	want = append(want, 1, 2)
	for page := 2; page <= 5; page++ {
		req, ok := p.LoadMore()
		require.True(t, ok)
		assert.Equal(t, page, req.Page)
		assert.Equal(t, LoadingMore, p.State())

		a, b := page*10, page*10+1
		require.True(t, p.Apply(req.Token, moviesPage(page, 5, a, b)))
		want = append(want, a, b)
	}

	assert.Equal(t, want, ids(p.Movies()))
	assert.Equal(t, 5, p.Page())
	assert.True(t, p.Exhausted())
}

func TestPager_DuplicatesKeptByDefault(t *testing.T) {
	p := New(Options{})
	req := p.Start()
	p.Apply(req.Token, moviesPage(1, 3, 1, 2))
	req, _ = p.LoadMore()
	p.Apply(req.Token, moviesPage(2, 3, 2, 3))

	assert.Equal(t, []int{1, 2, 2, 3}, ids(p.Movies()))
}

func TestPager_Dedupe(t *testing.T) {
	p := New(Options{Dedupe: true})
	req := p.Start()
	p.Apply(req.Token, moviesPage(1, 3, 1, 2))
	req, _ = p.LoadMore()
	p.Apply(req.Token, moviesPage(2, 3, 2, 3, 3))

	assert.Equal(t, []int{1, 2, 3}, ids(p.Movies()))

	// A refresh resets the seen set.
	req = p.Start()
	p.Apply(req.Token, moviesPage(1, 3, 2, 1))
	assert.Equal(t, []int{2, 1}, ids(p.Movies()))
}

func TestPager_GuardAgainstConcurrentLoadMore(t *testing.T) {
	p := New(Options{})
	req := p.Start()
	p.Apply(req.Token, moviesPage(1, 10, 1))

	first, ok := p.LoadMore()
	require.True(t, ok)

	for range 20 {
		_, ok := p.LoadMore()
		assert.False(t, ok, "scroll-end while loading more must be a no-op")
	}

	require.True(t, p.Apply(first.Token, moviesPage(2, 10, 2)))
	assert.Equal(t, []int{1, 2}, ids(p.Movies()))
}

func TestPager_LoadMoreWhileInitialLoading(t *testing.T) {
	p := New(Options{})
	p.Start()
	_, ok := p.LoadMore()
	assert.False(t, ok)
}

func TestPager_LoadMoreBeforeFirstPage(t *testing.T) {
	p := New(Options{})
	_, ok := p.LoadMore()
	assert.False(t, ok)
}

func TestPager_InitialFailure(t *testing.T) {
	p := New(Options{})
	req := p.Start()

	boom := errors.New("boom")
	require.True(t, p.Fail(req.Token, boom))

	assert.Equal(t, Idle, p.State())
	assert.Empty(t, p.Movies())
	assert.ErrorIs(t, p.Err(), boom)
	assert.True(t, p.Failed(), "failed initial load is a terminal error state")
}

func TestPager_SubsequentFailureKeepsList(t *testing.T) {
	p := New(Options{})
	req := p.Start()
	p.Apply(req.Token, moviesPage(1, 10, 1, 2))

	req, ok := p.LoadMore()
	require.True(t, ok)
	require.True(t, p.Fail(req.Token, errors.New("timeout")))

	assert.Equal(t, Idle, p.State())
	assert.Equal(t, []int{1, 2}, ids(p.Movies()))
	assert.Equal(t, 1, p.Page())
	assert.False(t, p.Failed())

	// The same page is requested again on the next trigger.
	req, ok = p.LoadMore()
	require.True(t, ok)
	assert.Equal(t, 2, req.Page)
	require.True(t, p.Apply(req.Token, moviesPage(2, 10, 3)))
	assert.Equal(t, []int{1, 2, 3}, ids(p.Movies()))
	assert.NoError(t, p.Err())
}

func TestPager_StaleResponsesDiscarded(t *testing.T) {
	p := New(Options{})
	old := p.Start()
	fresh := p.Start()

	assert.False(t, p.Apply(old.Token, moviesPage(1, 10, 99)))
	assert.Equal(t, LoadingInitial, p.State())

	assert.True(t, p.Apply(fresh.Token, moviesPage(1, 10, 1)))
	assert.Equal(t, []int{1}, ids(p.Movies()))

	assert.False(t, p.Apply(fresh.Token, moviesPage(1, 10, 2)), "a token applies at most once")
	assert.False(t, p.Fail(old.Token, errors.New("late")))
	assert.NoError(t, p.Err())
}

func TestPager_Cancel(t *testing.T) {
	p := New(Options{})
	req := p.Start()
	p.Cancel()

	assert.Equal(t, Idle, p.State())
	assert.False(t, p.Apply(req.Token, moviesPage(1, 10, 1)))
	assert.Empty(t, p.Movies())
}

func TestPager_RefreshKeepsStaleListUntilReplaced(t *testing.T) {
	p := New(Options{})
	req := p.Start()
	p.Apply(req.Token, moviesPage(1, 10, 1, 2))
	req, _ = p.LoadMore()
	p.Apply(req.Token, moviesPage(2, 10, 3))

	req = p.Start()
	assert.Equal(t, []int{1, 2, 3}, ids(p.Movies()))

	p.Apply(req.Token, moviesPage(1, 10, 7))
	assert.Equal(t, []int{7}, ids(p.Movies()))
	assert.Equal(t, 1, p.Page())
}

func TestPager_Exhausted(t *testing.T) {
	p := New(Options{})
	req := p.Start()
	p.Apply(req.Token, moviesPage(1, 1, 1))

	assert.True(t, p.Exhausted())
	_, ok := p.LoadMore()
	assert.False(t, ok)
}

func TestPager_PageFallsBackToRequested(t *testing.T) {
	p := New(Options{})
	req := p.Start()
	p.Apply(req.Token, &tmdb.MoviesPage{Results: []tmdb.Movie{{ID: 1}}})
	assert.Equal(t, 1, p.Page())
}

func TestPager_RequestedPageWinsOverEchoedPage(t *testing.T) {
	p := New(Options{})
	req := p.Start()
	require.True(t, p.Apply(req.Token, moviesPage(1, 5, 1)))

	var requested []int
	for i := 0; i < 3; i++ {
		req, ok := p.LoadMore()
		require.True(t, ok)
		requested = append(requested, req.Page)
		require.True(t, p.Apply(req.Token, moviesPage(1, 5, 10+i)))
	}

	assert.Equal(t, []int{2, 3, 4}, requested)
	assert.Equal(t, 4, p.Page())
	assert.Equal(t, []int{1, 10, 11, 12}, ids(p.Movies()))
}

func TestPager_RefreshFailed(t *testing.T) {
	p := New(Options{})
	req := p.Start()
	require.True(t, p.Apply(req.Token, moviesPage(1, 3, 1, 2)))

	more, ok := p.LoadMore()
	require.True(t, ok)
	require.True(t, p.Fail(more.Token, errors.New("boom")))
	assert.False(t, p.RefreshFailed(), "a failed LoadMore is not a refresh failure")

	req = p.Start()
	require.True(t, p.Fail(req.Token, errors.New("boom")))
	assert.True(t, p.RefreshFailed())
	assert.False(t, p.Failed(), "stale list is kept")
	assert.Equal(t, []int{1, 2}, ids(p.Movies()))

	req = p.Start()
	require.True(t, p.Apply(req.Token, moviesPage(1, 3, 3)))
	assert.False(t, p.RefreshFailed())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading_initial", LoadingInitial.String())
	assert.Equal(t, "loading_more", LoadingMore.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestNearEnd(t *testing.T) {
	tests := []struct {
		name        string
		lastVisible int
		total       int
		window      int
		want        bool
	}{
		{"empty", 0, 0, 10, false},
		{"all_visible", 4, 5, 10, true},
		{"far_from_end", 9, 40, 10, false},
		{"exactly_half_window_left", 9, 15, 10, true},
		{"just_over_half", 9, 16, 10, false},
		{"past_end_clamped", 50, 20, 10, true},
		{"zero_window", 3, 10, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NearEnd(tt.lastVisible, tt.total, tt.window, 0.5))
		})
	}
}
