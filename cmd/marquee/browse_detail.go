package main

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vadimtrunov/marquee/internal/format"
	"github.com/vadimtrunov/marquee/internal/nav"
	"github.com/vadimtrunov/marquee/internal/tmdb"
)

// detailLoadedMsg carries a detail response to the screen that asked for it.
type detailLoadedMsg struct {
	owner   *detailScreen
	details *tmdb.MovieDetails
	err     error
}

// detailScreen fetches one movie when opened and shows it in a scrollable
// viewport. A failed fetch is terminal.
type detailScreen struct {
	ctx     context.Context
	cancel  context.CancelFunc
	id      int
	catalog movieCatalog
	format  *format.Formatter
	logger  *slog.Logger

	spinner  spinner.Model
	viewport viewport.Model
	loading  bool
	details  *tmdb.MovieDetails
	err      error
	width    int
	height   int
}

func newDetailScreen(deps tuiDeps, id int) *detailScreen {
	ctx, cancel := context.WithCancel(deps.ctx)
	return &detailScreen{
		ctx:      ctx,
		cancel:   cancel,
		id:       id,
		catalog:  deps.catalog,
		format:   deps.format,
		logger:   deps.logger,
		spinner:  newSpinner(),
		viewport: viewport.New(0, 0),
	}
}

// Init issues the single detail fetch.
func (d *detailScreen) Init() tea.Cmd {
	d.loading = true
	ctx, catalog, id := d.ctx, d.catalog, d.id
	fetch := func() tea.Msg {
		details, err := catalog.MovieDetails(ctx, id)
		return detailLoadedMsg{owner: d, details: details, err: err}
	}
	return tea.Batch(d.spinner.Tick, fetch)
}

func (d *detailScreen) Path() string { return nav.MoviePath(d.id) }

func (d *detailScreen) Close() { d.cancel() }

func (d *detailScreen) SetSize(width, height int) tea.Cmd {
	d.width, d.height = width, height
	d.viewport.Width = width
	d.viewport.Height = max(height-1, 1) // help line
	d.render()
	return nil
}

func (d *detailScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		if msg.owner != d || !d.loading {
			return nil
		}
		d.loading = false
		if msg.err != nil {
			d.err = msg.err
			d.logger.Error("movie details load failed",
				slog.Int("movie_id", d.id),
				slog.String("error", msg.err.Error()),
			)
			return nil
		}
		d.details = msg.details
		d.render()
		return nil
	case spinner.TickMsg:
		if !d.loading {
			return nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		var cmd tea.Cmd
		d.viewport, cmd = d.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (d *detailScreen) render() {
	if d.details == nil {
		return
	}
	d.viewport.SetContent(renderDetails(d.format, d.details, max(d.width-2, 0)))
}

func (d *detailScreen) View() string {
	f := d.format
	switch {
	case d.loading:
		return d.spinner.View() + " " + styleDim.Render(f.T(format.MsgLoadingDetails))
	case d.err != nil || d.details == nil:
		return styleError.Render(f.T(format.MsgDetailsFailed)) + "\n" +
			styleDim.Render(f.Error(d.err)) + "\n\n" +
			styleDim.Render(f.T(format.MsgDetailHelp))
	}
	return d.viewport.View() + "\n" + styleDim.Render(f.T(format.MsgDetailHelp))
}
