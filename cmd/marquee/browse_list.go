package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/marquee/internal/browse"
	"github.com/vadimtrunov/marquee/internal/format"
	"github.com/vadimtrunov/marquee/internal/nav"
	"github.com/vadimtrunov/marquee/internal/tmdb"
)

const (
	gridColumns    = 2
	minColumnWidth = 24
	cardHeight     = 4 // title, date, rating, gap
	listChrome     = 3 // title, footer, help
)

var (
	styleCard = lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("8")).
			PaddingLeft(1).
			MarginBottom(1)

	styleCardSelected = styleCard.BorderForeground(lipgloss.Color("5"))
)

// pageLoadedMsg carries a popular page back to the list screen.
type pageLoadedMsg struct {
	token browse.Token
	page  int
	resp  *tmdb.MoviesPage
	err   error
}

// listScreen shows the popular movies as a grid and loads the next page when
// the cursor nears the end.
type listScreen struct {
	ctx       context.Context
	cancel    context.CancelFunc
	catalog   movieCatalog
	format    *format.Formatter
	logger    *slog.Logger
	threshold float64

	pager   *browse.Pager
	spinner spinner.Model

	cursor  int // index into the movie list
	offset  int // first visible grid row
	columns int
	width   int
	height  int
}

func newListScreen(deps tuiDeps) *listScreen {
	ctx, cancel := context.WithCancel(deps.ctx)
	return &listScreen{
		ctx:       ctx,
		cancel:    cancel,
		catalog:   deps.catalog,
		format:    deps.format,
		logger:    deps.logger,
		threshold: deps.threshold,
		pager:     browse.New(deps.pager),
		spinner:   newSpinner(),
		columns:   gridColumns,
	}
}

// Init requests page 1.
func (l *listScreen) Init() tea.Cmd {
	return l.load(l.pager.Start())
}

func (l *listScreen) Path() string { return nav.PathList }

func (l *listScreen) Close() {
	l.pager.Cancel()
	l.cancel()
}

func (l *listScreen) SetSize(width, height int) tea.Cmd {
	l.width, l.height = width, height
	l.columns = gridColumns
	if width < gridColumns*minColumnWidth {
		l.columns = 1
	}
	l.ensureVisible()
	return l.maybeLoadMore()
}

func (l *listScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		return l.handlePage(msg)
	case spinner.TickMsg:
		if l.pager.State() == browse.Idle {
			return nil
		}
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		return l.handleKey(msg)
	}
	return nil
}

// load performs req in the background. Cached pages are served as is.
func (l *listScreen) load(req browse.Request) tea.Cmd {
	ctx, catalog := l.ctx, l.catalog
	return l.fetch(req, func() (*tmdb.MoviesPage, error) {
		return catalog.PopularMovies(ctx, req.Page)
	})
}

// refresh restarts the list from page 1 fetched fresh from TMDb.
func (l *listScreen) refresh() tea.Cmd {
	req := l.pager.Start()
	ctx, catalog := l.ctx, l.catalog
	return l.fetch(req, func() (*tmdb.MoviesPage, error) {
		return catalog.RefreshPopular(ctx)
	})
}

func (l *listScreen) fetch(req browse.Request, get func() (*tmdb.MoviesPage, error)) tea.Cmd {
	run := func() tea.Msg {
		resp, err := get()
		return pageLoadedMsg{token: req.Token, page: req.Page, resp: resp, err: err}
	}
	return tea.Batch(l.spinner.Tick, run)
}

// handlePage applies a response. Stale responses are dropped by the pager.
func (l *listScreen) handlePage(msg pageLoadedMsg) tea.Cmd {
	if msg.err != nil {
		if l.pager.Fail(msg.token, msg.err) {
			l.logger.Error("popular movies load failed",
				slog.Int("page", msg.page),
				slog.String("error", msg.err.Error()),
			)
		}
		return nil
	}

	initial := l.pager.State() == browse.LoadingInitial
	if !l.pager.Apply(msg.token, msg.resp) {
		return nil
	}
	if initial {
		l.cursor, l.offset = 0, 0
	}
	l.logger.Debug("popular page loaded",
		slog.Int("page", l.pager.Page()),
		slog.Int("total_pages", l.pager.TotalPages()),
		slog.Int("movies", l.pager.Len()),
	)
	return l.maybeLoadMore()
}

func (l *listScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Refresh):
		return l.refresh()
	case key.Matches(msg, keys.Open):
		movies := l.pager.Movies()
		if l.cursor >= len(movies) {
			return nil
		}
		return navigateTo(nav.Destination{Screen: nav.ScreenDetail, MovieID: movies[l.cursor].ID})
	case key.Matches(msg, keys.Up):
		l.move(-l.columns)
	case key.Matches(msg, keys.Down):
		l.move(l.columns)
	case key.Matches(msg, keys.Left):
		l.move(-1)
	case key.Matches(msg, keys.Right):
		l.move(1)
	case key.Matches(msg, keys.PageUp):
		l.move(-l.columns * l.visibleRows())
	case key.Matches(msg, keys.PageDn):
		l.move(l.columns * l.visibleRows())
	default:
		return nil
	}
	return l.maybeLoadMore()
}

func (l *listScreen) move(delta int) {
	n := l.pager.Len()
	if n == 0 {
		return
	}
	l.cursor = min(max(l.cursor+delta, 0), n-1)
	l.ensureVisible()
}

// ensureVisible scrolls so the cursor row is inside the window.
func (l *listScreen) ensureVisible() {
	if l.pager.Len() == 0 {
		l.cursor, l.offset = 0, 0
		return
	}
	l.cursor = min(l.cursor, l.pager.Len()-1)
	row, window := l.cursor/l.columns, l.visibleRows()
	switch {
	case row < l.offset:
		l.offset = row
	case row >= l.offset+window:
		l.offset = row - window + 1
	}
}

// maybeLoadMore requests the next page once the rows below the window fit
// within the threshold. The pager ignores the request while one is in flight.
func (l *listScreen) maybeLoadMore() tea.Cmd {
	if l.height == 0 {
		return nil
	}
	rows, window := l.rows(), l.visibleRows()
	lastVisible := min(l.offset+window, rows) - 1
	if !browse.NearEnd(lastVisible, rows, window, l.threshold) {
		return nil
	}
	req, ok := l.pager.LoadMore()
	if !ok {
		return nil
	}
	return l.load(req)
}

func (l *listScreen) rows() int {
	return (l.pager.Len() + l.columns - 1) / l.columns
}

func (l *listScreen) visibleRows() int {
	return max((l.height-listChrome)/cardHeight, 1)
}

func (l *listScreen) View() string {
	f := l.format
	title := styleTitle.Render(f.T(format.MsgAppTitle))

	switch {
	case l.pager.Failed():
		return title + "\n\n" +
			styleError.Render(f.T(format.MsgListFailed)) + "\n" +
			styleDim.Render(f.Error(l.pager.Err())) + "\n\n" +
			styleDim.Render(f.T(format.MsgListHelp))
	case l.pager.Len() == 0 && l.pager.State() != browse.Idle:
		return title + "\n\n" + l.spinner.View() + " " + styleDim.Render(f.T(format.MsgLoadingMovies))
	}

	if l.pager.State() == browse.LoadingInitial {
		title += " " + l.spinner.View()
	}

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteByte('\n')
	sb.WriteString(l.renderGrid())
	sb.WriteByte('\n')
	sb.WriteString(l.footer())
	sb.WriteByte('\n')
	sb.WriteString(styleDim.Render(f.T(format.MsgListHelp)))
	return sb.String()
}

func (l *listScreen) renderGrid() string {
	movies := l.pager.Movies()
	colWidth := max(l.width/l.columns, minColumnWidth)
	last := min(l.offset+l.visibleRows(), l.rows())

	rows := make([]string, 0, last-l.offset)
	for r := l.offset; r < last; r++ {
		cards := make([]string, 0, l.columns)
		for c := 0; c < l.columns; c++ {
			i := r*l.columns + c
			if i >= len(movies) {
				break
			}
			cards = append(cards, l.renderCard(movies[i], i == l.cursor, colWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n")
}

// renderCard renders one grid cell: title, release date and rating.
func (l *listScreen) renderCard(m tmdb.Movie, selected bool, width int) string {
	style := styleCard
	if selected {
		style = styleCardSelected
	}
	inner := width - 3 // border, padding, gutter

	date := m.ReleaseDate
	if date == "" {
		date = l.format.T(format.MsgUnknown)
	}
	title := styleTitle.Render(truncate(m.Title, inner))
	if selected {
		title = styleLogo.Render(truncate(m.Title, inner))
	}

	return style.Width(width - 1).Render(
		title + "\n" +
			styleDim.Render(date) + "\n" +
			styleRating.Render("⭐ "+l.format.Rating(m.VoteAverage)),
	)
}

func (l *listScreen) footer() string {
	f := l.format
	switch {
	case l.pager.State() == browse.LoadingMore:
		return l.spinner.View() + " " + styleDim.Render(f.T(format.MsgLoadingMore))
	case l.pager.RefreshFailed():
		return styleError.Render(f.Error(l.pager.Err()) + " " + f.T(format.MsgRefreshFailed))
	case l.pager.Err() != nil:
		return styleError.Render(f.Error(l.pager.Err()) + " " + f.T(format.MsgMoreFailed))
	case l.pager.Exhausted() || (l.pager.Len() == 0 && l.pager.Page() > 0):
		return styleDim.Render(f.T(format.MsgEndOfList))
	default:
		return styleDim.Render(f.T(format.MsgPageOf, l.pager.Page(), l.pager.TotalPages()))
	}
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
