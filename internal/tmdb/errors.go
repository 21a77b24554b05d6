package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingAPIKey is returned by New when no API key is configured.
	ErrMissingAPIKey = errors.New("tmdb: api key is not configured")
	// ErrInvalidMovieID is returned for non-positive movie ids.
	ErrInvalidMovieID = errors.New("tmdb: movie id must be positive")
)

// Operation names carried by FetchError and DecodeError.
const (
	OpPopular = "popular"
	OpDetails = "details"
)

// Fixed messages carried by FetchError.
const (
	msgPopularFailed = "failed to fetch popular movies"
	msgDetailsFailed = "failed to fetch movie details"
)

// FetchError reports a failed round-trip: transport error, timeout or
// non-2xx status. No retry has been attempted beyond the client config.
type FetchError struct {
	Op      string // OpPopular or OpDetails
	Message string
	Err     error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports a payload that is not valid JSON or does not match the
// expected shape.
type DecodeError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("tmdb: decode %s response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from TMDb.
type APIError struct {
	StatusCode    int
	StatusMessage string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusMessage == "" {
		return fmt.Sprintf("tmdb API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("tmdb API error: status %d: %s", e.StatusCode, e.StatusMessage)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
