package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vadimtrunov/marquee/internal/format"
	"github.com/vadimtrunov/marquee/internal/nav"
	"github.com/vadimtrunov/marquee/internal/tmdb"
)

// Catalog fetches popular movies and movie details.
type Catalog interface {
	PopularMovies(ctx context.Context, page int) (*tmdb.MoviesPage, error)
	MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error)
}

// Deps holds dependencies for MCP tool handlers.
type Deps struct {
	Catalog Catalog
	Format  *format.Formatter
}

// Server wraps an MCP SDK server with marquee tool handlers.
type Server struct {
	server *mcpsdk.Server
	deps   Deps
	logger *slog.Logger
}

// NewServer creates an MCP server with all marquee tools registered.
func NewServer(deps Deps, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Format == nil {
		deps.Format = format.New("")
	}

	s := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "marquee",
			Version: version,
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{server: s, deps: deps, logger: logger}
	srv.registerTools()
	return srv
}

// ServeStdio runs the MCP server over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcpsdk.StdioTransport{})
}

// MCPServer returns the underlying MCP SDK server (for testing).
func (s *Server) MCPServer() *mcpsdk.Server {
	return s.server
}

func (s *Server) registerTools() {
	s.server.AddTool(popularMoviesTool(), s.handlePopularMovies)
	s.server.AddTool(movieDetailsTool(), s.handleMovieDetails)
	s.server.AddTool(imageURLsTool(), s.handleImageURLs)
}

func popularMoviesTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "popular_movies",
		Description: "List currently popular movies, one page of about 20 at a time. Returns the page number, total pages and the movies with their TMDb IDs, titles, release dates and ratings.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"page": map[string]any{
					"type":        "integer",
					"description": "Page number starting at 1 (default 1)",
					"minimum":     1,
				},
			},
		},
	}
}

func movieDetailsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "movie_details",
		Description: "Get detailed information about a movie by its TMDb ID: genres, runtime, production companies, budget and revenue, plus display-ready formatted values.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tmdb_id": map[string]any{
					"type":        "integer",
					"description": "The TMDb ID of the movie",
				},
			},
			"required": []any{"tmdb_id"},
		},
	}
}

func imageURLsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "image_urls",
		Description: "Build full poster and backdrop image URLs from TMDb image paths. Missing paths yield placeholder images.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"poster_path": map[string]any{
					"type":        "string",
					"description": "Poster path such as /abc.jpg",
				},
				"backdrop_path": map[string]any{
					"type":        "string",
					"description": "Backdrop path such as /def.jpg",
				},
			},
		},
	}
}

// Tool handlers parse arguments, call the catalog and return JSON text content.

func (s *Server) handlePopularMovies(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("TMDb client not configured"), nil
	}

	page, err := optionalIntFromArgs(req.Params.Arguments, "page", 1)
	if err != nil {
		return toolError(err.Error()), nil
	}
	if page < 1 {
		return toolError("page must be at least 1"), nil
	}

	resp, err := s.deps.Catalog.PopularMovies(ctx, page)
	if err != nil {
		s.logger.Warn("popular_movies failed", slog.Int("page", page), slog.String("error", err.Error()))
		return toolError(fmt.Sprintf("%s (%v)", s.deps.Format.Error(err), err)), nil
	}
	return toolJSON(resp)
}

func (s *Server) handleMovieDetails(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("TMDb client not configured"), nil
	}

	tmdbID, err := extractIntFromArgs(req.Params.Arguments, "tmdb_id")
	if err != nil {
		return toolError(err.Error()), nil
	}
	if tmdbID <= 0 {
		return toolError("tmdb_id must be a positive integer"), nil
	}

	details, err := s.deps.Catalog.MovieDetails(ctx, tmdbID)
	if err != nil {
		s.logger.Warn("movie_details failed", slog.Int("tmdb_id", tmdbID), slog.String("error", err.Error()))
		return toolError(fmt.Sprintf("%s (%v)", s.deps.Format.Error(err), err)), nil
	}

	f := s.deps.Format
	display := map[string]string{
		"rating":     f.Rating(details.VoteAverage),
		"votes":      f.Count(details.VoteCount),
		"popularity": f.Popularity(details.Popularity),
		"budget":     f.Currency(details.Budget),
		"revenue":    f.Currency(details.Revenue),
	}
	if details.Runtime > 0 {
		display["runtime"] = f.Runtime(details.Runtime)
	}

	return toolJSON(map[string]any{
		"movie":        details,
		"path":         nav.MoviePath(details.ID),
		"poster_url":   tmdb.PosterURL(details.PosterPath),
		"backdrop_url": tmdb.BackdropURL(details.BackdropPath),
		"display":      display,
	})
}

func (s *Server) handleImageURLs(_ context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	var args struct {
		PosterPath   string `json:"poster_path"`
		BackdropPath string `json:"backdrop_path"`
	}
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
	}

	return toolJSON(map[string]string{
		"poster_url":   tmdb.PosterURL(args.PosterPath),
		"backdrop_url": tmdb.BackdropURL(args.BackdropPath),
	})
}

// Helper functions.

// toolJSON marshals v to JSON and returns it as text content.
func toolJSON(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

// toolError returns a tool result indicating an error.
func toolError(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
		IsError: true,
	}
}

// extractIntFromArgs extracts a required integer argument from raw JSON arguments.
func extractIntFromArgs(raw json.RawMessage, key string) (int, error) {
	args, err := decodeArgs(raw)
	if err != nil {
		return 0, err
	}
	val, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	return toInt(key, val)
}

// optionalIntFromArgs is extractIntFromArgs with a default for absent keys.
func optionalIntFromArgs(raw json.RawMessage, key string, def int) (int, error) {
	args, err := decodeArgs(raw)
	if err != nil {
		return 0, err
	}
	val, ok := args[key]
	if !ok || val == nil {
		return def, nil
	}
	return toInt(key, val)
}

func decodeArgs(raw json.RawMessage) (map[string]any, error) {
	args := map[string]any{}
	if len(raw) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return args, nil
}

func toInt(key string, val any) (int, error) {
	switch v := val.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be an integer, got %v", key, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", key, val)
	}
}
