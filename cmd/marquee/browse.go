package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/marquee/internal/browse"
	"github.com/vadimtrunov/marquee/internal/config"
	"github.com/vadimtrunov/marquee/internal/format"
	"github.com/vadimtrunov/marquee/internal/nav"
)

// newBrowseCmd returns the "browse" subcommand for the interactive list.
func newBrowseCmd() *cobra.Command {
	var open string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse popular movies interactively",
		Long: "Open the popular movies list. Select a movie to see its details.\n" +
			"Logs are written to app.log_file while the browser owns the terminal.",
		Example: `  marquee browse
  marquee browse --open /movie/550`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBrowse(open)
		},
	}
	cmd.Flags().StringVar(&open, "open", "", "start at a path such as /movie/550")
	return cmd
}

// runBrowse starts the Bubble Tea browser at the given path.
func runBrowse(open string) error {
	dest, err := nav.Resolve(open)
	if err != nil {
		return fmt.Errorf("--open: %w", err)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logFile, err := config.OpenLogFile(cfg.App.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := config.SetupLogger(cfg.App.LogLevel, logFile)

	catalog, err := newCatalog(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	deps := tuiDeps{
		ctx:       ctx,
		catalog:   catalog,
		format:    newFormatter(cfg),
		threshold: cfg.Browse.Threshold,
		pager:     browseOptions(cfg),
		logger:    logger,
	}
	p := tea.NewProgram(newAppModel(deps, dest), tea.WithAltScreen())

	// Bridge OS signal cancellation into the Bubble Tea event loop.
	go func() {
		<-ctx.Done()
		p.Send(tea.Quit())
	}()

	logger.Info("browser starting", slog.String("path", dest.Path()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}

// tuiDeps is shared by every screen.
type tuiDeps struct {
	ctx       context.Context
	catalog   movieCatalog
	format    *format.Formatter
	threshold float64
	pager     browse.Options
	logger    *slog.Logger
}

// screen is one entry of the navigation stack.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	// SetSize gives the screen the area below the header.
	SetSize(width, height int) tea.Cmd
	// Path is the route the screen was opened for.
	Path() string
	// Close cancels the screen's requests; late responses are dropped.
	Close()
}

// navigateMsg asks the shell to open a route.
type navigateMsg struct {
	dest nav.Destination
}

func navigateTo(dest nav.Destination) tea.Cmd {
	return func() tea.Msg { return navigateMsg{dest: dest} }
}

const headerHeight = 2

var (
	styleLogo = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))

	styleHeaderBar = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("8"))
)

// appModel is the navigation shell: a header above a stack of screens with
// the list at the root.
type appModel struct {
	deps   tuiDeps
	stack  []screen
	width  int
	height int
	ready  bool
}

// newAppModel creates the shell with the list at the root and, for a detail
// destination, the detail screen on top of it.
func newAppModel(deps tuiDeps, dest nav.Destination) appModel {
	m := appModel{
		deps:  deps,
		stack: []screen{newListScreen(deps)},
	}
	if dest.Screen == nav.ScreenDetail {
		m.stack = append(m.stack, newDetailScreen(deps, dest.MovieID))
	}
	return m
}

// Init starts the initial load of every screen on the stack.
func (m appModel) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.stack))
	for _, s := range m.stack {
		cmds = append(cmds, s.Init())
	}
	return tea.Batch(cmds...)
}

// Update routes keys to the top screen and everything else to all screens.
func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height, m.ready = msg.Width, msg.Height, true
		cmds := make([]tea.Cmd, 0, len(m.stack))
		for _, s := range m.stack {
			cmds = append(cmds, s.SetSize(m.width, m.bodyHeight()))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			for _, s := range m.stack {
				s.Close()
			}
			return m, tea.Quit
		case key.Matches(msg, keys.Home):
			return m.navigate(nav.Destination{Screen: nav.ScreenList})
		case key.Matches(msg, keys.Back):
			if len(m.stack) > 1 {
				m.pop()
			}
			return m, nil
		}
		return m, m.top().Update(msg)

	case navigateMsg:
		return m.navigate(msg.dest)
	}

	cmds := make([]tea.Cmd, 0, len(m.stack))
	for _, s := range m.stack {
		cmds = append(cmds, s.Update(msg))
	}
	return m, tea.Batch(cmds...)
}

// navigate pops to the list root or pushes a detail screen.
func (m appModel) navigate(dest nav.Destination) (tea.Model, tea.Cmd) {
	if dest.Screen == nav.ScreenList {
		for len(m.stack) > 1 {
			m.pop()
		}
		return m, nil
	}

	d := newDetailScreen(m.deps, dest.MovieID)
	m.stack = append(m.stack, d)
	m.deps.logger.Debug("navigate", slog.String("path", d.Path()), slog.Int("depth", len(m.stack)))
	var sizeCmd tea.Cmd
	if m.ready {
		sizeCmd = d.SetSize(m.width, m.bodyHeight())
	}
	return m, tea.Batch(d.Init(), sizeCmd)
}

func (m *appModel) pop() {
	top := m.top()
	top.Close()
	m.stack[len(m.stack)-1] = nil
	m.stack = m.stack[:len(m.stack)-1]
}

func (m appModel) top() screen {
	return m.stack[len(m.stack)-1]
}

func (m appModel) bodyHeight() int {
	return max(m.height-headerHeight, 1)
}

// View renders the header and the top screen.
func (m appModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.header() + "\n" + m.top().View()
}

// header renders the logo with the current route. The home key acts as the
// logo press.
func (m appModel) header() string {
	left := styleLogo.Render("🎬 MARQUEE") + "  " + styleDim.Render(m.top().Path())
	right := ""
	if len(m.stack) > 1 {
		right = styleDim.Render(keys.Back.Help().Key + " " + keys.Back.Help().Desc)
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return styleHeaderBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo
	return s
}
