// Package nav maps navigation paths to screens.
//
// The app has two routes: "/" for the popular list and "/movie/:movieId" for
// a movie's detail page. The same table drives TUI deep links and the web
// surface.
package nav

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// Route patterns.
const (
	PathList   = "/"
	PathDetail = "/movie/:movieId"
	ParamID    = "movieId"
)

// Screen identifies a top-level screen.
type Screen int

const (
	// ScreenList is the popular movies list.
	ScreenList Screen = iota
	// ScreenDetail is a single movie's detail page.
	ScreenDetail
)

func (s Screen) String() string {
	switch s {
	case ScreenList:
		return "list"
	case ScreenDetail:
		return "detail"
	default:
		return "unknown"
	}
}

var (
	// ErrUnknownRoute is returned for paths outside the route table.
	ErrUnknownRoute = errors.New("unknown route")
	// ErrInvalidMovieID is returned when the movie id segment is not a positive integer.
	ErrInvalidMovieID = errors.New("movie id must be a positive integer")
)

// Destination is a resolved path.
type Destination struct {
	Screen  Screen
	MovieID int // set for ScreenDetail
}

// Path returns the canonical path of d.
func (d Destination) Path() string {
	if d.Screen == ScreenDetail {
		return MoviePath(d.MovieID)
	}
	return PathList
}

var table = newTable()

func newTable() *httprouter.Router {
	r := httprouter.New()
	noop := func(http.ResponseWriter, *http.Request, httprouter.Params) {}
	r.GET(PathList, noop)
	r.GET(PathDetail, noop)
	return r
}

// Resolve maps a path such as "/movie/550" to its Destination. A trailing
// slash is tolerated.
func Resolve(path string) (Destination, error) {
	if path == "" {
		path = PathList
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	handle, params, _ := table.Lookup(http.MethodGet, path)
	if handle == nil {
		return Destination{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}

	raw := params.ByName(ParamID)
	if raw == "" {
		return Destination{Screen: ScreenList}, nil
	}
	id, err := ParseMovieID(raw)
	if err != nil {
		return Destination{}, err
	}
	return Destination{Screen: ScreenDetail, MovieID: id}, nil
}

// ParseMovieID parses a movie id path segment.
func ParseMovieID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMovieID, raw)
	}
	return id, nil
}

// MoviePath returns the detail path for a movie id.
func MoviePath(id int) string {
	return "/movie/" + strconv.Itoa(id)
}
