package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/marquee/internal/browse"
	"github.com/vadimtrunov/marquee/internal/config"
	"github.com/vadimtrunov/marquee/internal/format"
	"github.com/vadimtrunov/marquee/internal/httpclient"
	"github.com/vadimtrunov/marquee/internal/tmdb"
)

// Lipgloss styles used across commands.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	styleRating  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow

	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleSection = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")) // cyan bold

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("5")).
			MarginBottom(1)
)

// movieCatalog is the slice of the TMDb client the commands use.
type movieCatalog interface {
	PopularMovies(ctx context.Context, page int) (*tmdb.MoviesPage, error)
	RefreshPopular(ctx context.Context) (*tmdb.MoviesPage, error)
	MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error)
}

// loadConfig loads and validates the configuration file.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// newCatalog creates the TMDb client from the configuration.
func newCatalog(cfg *config.Config, logger *slog.Logger) (*tmdb.Client, error) {
	client, err := tmdb.New(tmdbConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("create TMDb client: %w", err)
	}
	logger.Info("TMDb client initialized",
		slog.String("url", sanitizeURL(cfg.TMDb.BaseURL)),
		slog.String("language", client.Language()),
		slog.Bool("cache", !cfg.Cache.Disabled),
	)
	return client, nil
}

// tmdbConfig maps the file configuration onto the client configuration.
func tmdbConfig(cfg *config.Config) tmdb.Config {
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.TMDb.Timeout
	httpCfg.MaxAttempts = cfg.TMDb.MaxAttempts
	httpCfg.RequestsPerSecond = cfg.TMDb.RateLimit

	cacheTTL := cfg.Cache.TTL
	if cfg.Cache.Disabled {
		cacheTTL = -1
	}

	return tmdb.Config{
		APIKey:    cfg.TMDb.APIKey,
		BaseURL:   cfg.TMDb.BaseURL,
		Language:  cfg.TMDb.Language,
		HTTP:      httpCfg,
		CacheTTL:  cacheTTL,
		CacheSize: cfg.Cache.MaxEntries,
	}
}

// newFormatter returns the display formatter for the configured language.
func newFormatter(cfg *config.Config) *format.Formatter {
	return format.New(cfg.TMDb.Language)
}

// browseOptions returns the list pager options from the configuration.
func browseOptions(cfg *config.Config) browse.Options {
	return browse.Options{Dedupe: cfg.Browse.Dedupe}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// sanitizeURL strips credentials, query params, and fragment from a URL for safe logging.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || u.Scheme == "" {
		return "<redacted>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
