package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/vadimtrunov/marquee/internal/config"
	"github.com/vadimtrunov/marquee/internal/format"
	"github.com/vadimtrunov/marquee/internal/nav"
	"github.com/vadimtrunov/marquee/internal/tmdb"
)

type envelope map[string]any

type handlers struct {
	catalog Catalog
	format  *format.Formatter
}

type movieView struct {
	tmdb.Movie
	Path      string `json:"path"`
	PosterURL string `json:"poster_url"`
}

type detailView struct {
	*tmdb.MovieDetails
	Path        string      `json:"path"`
	PosterURL   string      `json:"poster_url"`
	BackdropURL string      `json:"backdrop_url"`
	Display     displayView `json:"display"`
}

// displayView carries the localized renderings shown on the detail screen.
type displayView struct {
	Rating     string `json:"rating"`
	Votes      string `json:"votes"`
	Popularity string `json:"popularity"`
	Runtime    string `json:"runtime,omitempty"`
	Budget     string `json:"budget"`
	Revenue    string `json:"revenue"`
	Overview   string `json:"overview"`
}

func (h *handlers) popular(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.errorResponse(w, r, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = n
	}

	resp, err := h.catalog.PopularMovies(r.Context(), page)
	if err != nil {
		h.fetchFailed(w, r, err)
		return
	}

	results := make([]movieView, 0, len(resp.Results))
	for _, m := range resp.Results {
		results = append(results, movieView{
			Movie:     m,
			Path:      nav.MoviePath(m.ID),
			PosterURL: tmdb.PosterURL(m.PosterPath),
		})
	}

	h.writeJSON(w, r, http.StatusOK, envelope{
		"page":          resp.Page,
		"total_pages":   resp.TotalPages,
		"total_results": resp.TotalResults,
		"results":       results,
	})
}

func (h *handlers) movie(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := nav.ParseMovieID(ps.ByName(nav.ParamID))
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, h.format.T(format.MsgInvalidMovieID))
		return
	}

	details, err := h.catalog.MovieDetails(r.Context(), id)
	if err != nil {
		h.fetchFailed(w, r, err)
		return
	}

	view := detailView{
		MovieDetails: details,
		Path:         nav.MoviePath(details.ID),
		PosterURL:    tmdb.PosterURL(details.PosterPath),
		BackdropURL:  tmdb.BackdropURL(details.BackdropPath),
		Display: displayView{
			Rating:     h.format.Rating(details.VoteAverage),
			Votes:      h.format.Count(details.VoteCount),
			Popularity: h.format.Popularity(details.Popularity),
			Budget:     h.format.Currency(details.Budget),
			Revenue:    h.format.Currency(details.Revenue),
			Overview:   h.format.Overview(details.Overview),
		},
	}
	if details.Runtime > 0 {
		view.Display.Runtime = h.format.Runtime(details.Runtime)
	}

	h.writeJSON(w, r, http.StatusOK, envelope{"movie": view})
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.writeJSON(w, r, http.StatusOK, envelope{"status": "ok"})
}

func (h *handlers) notFound(w http.ResponseWriter, r *http.Request) {
	h.errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

func (h *handlers) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	msg := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	h.errorResponse(w, r, http.StatusMethodNotAllowed, msg)
}

// fetchFailed maps a catalog error to a response. Upstream failures are a
// bad gateway; a movie TMDb does not know is a not found.
func (h *handlers) fetchFailed(w http.ResponseWriter, r *http.Request, err error) {
	logger := config.LoggerFromContext(r.Context())

	var apiErr *tmdb.APIError
	var fetchErr *tmdb.FetchError
	var decodeErr *tmdb.DecodeError
	switch {
	case errors.Is(err, tmdb.ErrInvalidMovieID):
		h.errorResponse(w, r, http.StatusBadRequest, h.format.Error(err))
	case errors.As(err, &apiErr) && apiErr.IsNotFound():
		h.errorResponse(w, r, http.StatusNotFound, h.format.Error(err))
	case errors.As(err, &fetchErr), errors.As(err, &decodeErr):
		logger.Error("catalog request failed", slog.String("error", err.Error()))
		h.errorResponse(w, r, http.StatusBadGateway, h.format.Error(err))
	default:
		logger.Error("unexpected catalog error", slog.String("error", err.Error()))
		h.errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem")
	}
}

func (h *handlers) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, envelope{"error": msg})
}

func (h *handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, data envelope) {
	body, err := json.Marshal(data)
	if err != nil {
		config.LoggerFromContext(r.Context()).Error("encode response", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging attaches a request-scoped logger and logs each request.
func withLogging(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqLogger := logger.With(
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(config.ContextWithLogger(r.Context(), reqLogger)))
		reqLogger.Debug("request served",
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
