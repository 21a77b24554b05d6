// Package browse holds the paginated loading state of the popular movies list.
//
// A Pager is a plain state machine with no I/O: callers ask it for the next
// Request, perform the fetch themselves, and report the outcome with Apply or
// Fail. At most one request is outstanding at any time, so pages are applied
// in request order.
package browse

import (
	"github.com/vadimtrunov/marquee/internal/tmdb"
)

// State is the loading state of a Pager.
type State int

const (
	// Idle means no request is in flight.
	Idle State = iota
	// LoadingInitial means the first page is in flight.
	LoadingInitial
	// LoadingMore means a subsequent page is in flight.
	LoadingMore
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case LoadingInitial:
		return "loading_initial"
	case LoadingMore:
		return "loading_more"
	default:
		return "unknown"
	}
}

// Token identifies the request a response belongs to. Responses carrying a
// token other than the pending one are stale and discarded.
type Token uint64

// Request is a page fetch the caller must perform.
type Request struct {
	Page  int
	Token Token
}

// Options configures a Pager.
type Options struct {
	// Dedupe drops movies whose id is already in the list when appending.
	Dedupe bool
}

// Pager accumulates pages of movies in page order.
type Pager struct {
	state      State
	page       int
	totalPages int
	movies     []tmdb.Movie
	seen       map[int]struct{}
	dedupe     bool

	gen         Token
	pending     Token
	pendingPage int

	err      error
	errState State // state of the request that produced err
}

// New returns an idle, empty Pager.
func New(opts Options) *Pager {
	return &Pager{dedupe: opts.Dedupe}
}

// Start begins loading page 1, superseding any request in flight.
// The current list stays visible until page 1 arrives.
func (p *Pager) Start() Request {
	return p.issue(LoadingInitial, 1)
}

// LoadMore requests the page after the current one. It returns false while a
// request is in flight, before the first page has loaded, and once the last
// page reported by the API has been reached.
func (p *Pager) LoadMore() (Request, bool) {
	if p.state != Idle || p.page == 0 || p.Exhausted() {
		return Request{}, false
	}
	return p.issue(LoadingMore, p.page+1), true
}

func (p *Pager) issue(state State, page int) Request {
	p.gen++
	p.pending = p.gen
	p.pendingPage = page
	p.state = state
	return Request{Page: page, Token: p.gen}
}

// Apply records a successful response. An initial load replaces the list; a
// subsequent load appends to it. It returns false and changes nothing when
// tok is stale.
func (p *Pager) Apply(tok Token, resp *tmdb.MoviesPage) bool {
	if !p.isPending(tok) || resp == nil {
		return false
	}

	if p.state == LoadingInitial {
		p.movies = make([]tmdb.Movie, 0, len(resp.Results))
		p.seen = nil
	}
	p.appendMovies(resp.Results)

	// The requested page wins over the page number echoed in the body.
	p.page = p.pendingPage
	p.totalPages = resp.TotalPages
	p.err = nil
	p.settle()
	return true
}

// Fail records a failed request. The list is left untouched. It returns false
// when tok is stale.
func (p *Pager) Fail(tok Token, err error) bool {
	if !p.isPending(tok) {
		return false
	}
	p.err = err
	p.errState = p.state
	p.settle()
	return true
}

// Cancel abandons the request in flight; its response will be discarded.
func (p *Pager) Cancel() {
	p.gen++
	p.settle()
}

func (p *Pager) isPending(tok Token) bool {
	return p.state != Idle && tok == p.pending
}

func (p *Pager) settle() {
	p.state = Idle
	p.pending = 0
	p.pendingPage = 0
}

func (p *Pager) appendMovies(movies []tmdb.Movie) {
	if !p.dedupe {
		p.movies = append(p.movies, movies...)
		return
	}
	if p.seen == nil {
		p.seen = make(map[int]struct{}, len(p.movies)+len(movies))
		for _, m := range p.movies {
			p.seen[m.ID] = struct{}{}
		}
	}
	for _, m := range movies {
		if _, dup := p.seen[m.ID]; dup {
			continue
		}
		p.seen[m.ID] = struct{}{}
		p.movies = append(p.movies, m)
	}
}

// Movies returns the accumulated list. Callers must not modify it.
func (p *Pager) Movies() []tmdb.Movie { return p.movies }

// Len returns the number of accumulated movies.
func (p *Pager) Len() int { return len(p.movies) }

// Page returns the last successfully loaded page number, 0 before the first.
func (p *Pager) Page() int { return p.page }

// TotalPages returns the page count reported by the last response.
func (p *Pager) TotalPages() int { return p.totalPages }

// State returns the current loading state.
func (p *Pager) State() State { return p.state }

// Err returns the error of the last request, nil once a later one succeeds.
func (p *Pager) Err() error { return p.err }

// RefreshFailed reports whether the last failure came from Start rather than
// LoadMore.
func (p *Pager) RefreshFailed() bool {
	return p.err != nil && p.errState == LoadingInitial
}

// Exhausted reports whether the last page has been loaded.
func (p *Pager) Exhausted() bool {
	return p.totalPages > 0 && p.page >= p.totalPages
}

// Failed reports the terminal error state: idle, empty, with an error.
func (p *Pager) Failed() bool {
	return p.state == Idle && p.err != nil && len(p.movies) == 0
}
