package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vadimtrunov/marquee/internal/httpclient"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultLanguage = "ko-KR"
	defaultCacheTTL = 15 * time.Minute
	defaultCacheMax = 256

	maxErrorBody = 4 << 10
)

// Config configures a Client.
type Config struct {
	APIKey   string
	BaseURL  string // defaults to the public v3 endpoint
	Language string // sent as the language query parameter, defaults to ko-KR
	HTTP     httpclient.Config

	// CacheTTL and CacheSize bound the response cache. Negative disables it.
	CacheTTL  time.Duration
	CacheSize int
}

// Client is a TMDb API v3 client for the popular list and movie details.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	http     *httpclient.Client
	cache    *cache
	validate *validator.Validate
	logger   *slog.Logger
}

// New creates a new TMDb client. It fails with ErrMissingAPIKey when
// cfg.APIKey is empty.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.HTTP == (httpclient.Config{}) {
		cfg.HTTP = httpclient.DefaultConfig()
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = defaultCacheMax
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("tmdb: invalid base url: %w", err)
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		http:     httpclient.New(cfg.HTTP, logger),
		cache:    newCache(cfg.CacheTTL, cfg.CacheSize),
		validate: validator.New(),
		logger:   logger,
	}, nil
}

// Language returns the locale sent with every request.
func (c *Client) Language() string { return c.language }

// PopularMovies returns one page of the popular movies list. page < 1 means page 1.
func (c *Client) PopularMovies(ctx context.Context, page int) (*MoviesPage, error) {
	if page < 1 {
		page = 1
	}

	cacheKey := c.popularPrefix() + strconv.Itoa(page)
	if cached, ok := c.cache.Get(cacheKey); ok {
		if p, ok := cached.(*MoviesPage); ok {
			return clonePage(p), nil
		}
	}

	var resp MoviesPage
	params := url.Values{"page": {strconv.Itoa(page)}}
	if err := c.get(ctx, OpPopular, "/movie/popular", params, &resp); err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, clonePage(&resp))
	return &resp, nil
}

// RefreshPopular drops every cached popular page for the client language and
// fetches page 1 from TMDb. Later pages are refetched when next requested.
func (c *Client) RefreshPopular(ctx context.Context) (*MoviesPage, error) {
	if n := c.cache.DeletePrefix(c.popularPrefix()); n > 0 {
		c.logger.Debug("popular cache cleared", slog.Int("pages", n))
	}
	return c.PopularMovies(ctx, 1)
}

func (c *Client) popularPrefix() string {
	return "popular:" + c.language + ":"
}

// MovieDetails retrieves the full record for a movie by TMDb ID.
func (c *Client) MovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMovieID, id)
	}

	cacheKey := fmt.Sprintf("movie:%s:%d", c.language, id)
	if cached, ok := c.cache.Get(cacheKey); ok {
		if d, ok := cached.(*MovieDetails); ok {
			return cloneDetails(d), nil
		}
	}

	var details MovieDetails
	if err := c.get(ctx, OpDetails, "/movie/"+strconv.Itoa(id), nil, &details); err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, cloneDetails(&details))
	return &details, nil
}

// get performs an authenticated GET request, decodes the JSON body into result
// and validates it. Errors are *FetchError or *DecodeError.
func (c *Client) get(ctx context.Context, op, path string, params url.Values, result any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return c.fetchError(op, fmt.Errorf("invalid URL: %w", err))
	}

	q := u.Query()
	q.Set("api_key", c.apiKey)
	q.Set("language", c.language)
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return c.fetchError(op, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("tmdb network error",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return c.fetchError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := readAPIError(resp)
		c.logger.Error("tmdb API error",
			slog.String("path", path),
			slog.Int("status", apiErr.StatusCode),
			slog.String("message", apiErr.StatusMessage),
		)
		return c.fetchError(op, apiErr)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		var netErr interface{ Timeout() bool }
		if (errors.As(err, &netErr) && netErr.Timeout()) || ctx.Err() != nil {
			return c.fetchError(op, err)
		}
		return &DecodeError{Op: op, Err: err}
	}
	if err := c.validate.StructCtx(ctx, result); err != nil {
		c.logger.Warn("tmdb payload failed validation",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

func (c *Client) fetchError(op string, err error) *FetchError {
	msg := msgDetailsFailed
	if op == OpPopular {
		msg = msgPopularFailed
	}
	return &FetchError{Op: op, Message: msg, Err: err}
}

// readAPIError extracts status_message from a TMDb error body when present.
func readAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.StatusMessage != "" {
		apiErr.StatusMessage = payload.StatusMessage
	} else {
		apiErr.StatusMessage = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func clonePage(p *MoviesPage) *MoviesPage {
	out := *p
	out.Results = append([]Movie(nil), p.Results...)
	if out.Results == nil {
		out.Results = []Movie{}
	}
	return &out
}

func cloneDetails(d *MovieDetails) *MovieDetails {
	out := *d
	out.Genres = append([]Genre(nil), d.Genres...)
	out.ProductionCompanies = append([]ProductionCompany(nil), d.ProductionCompanies...)
	return &out
}
