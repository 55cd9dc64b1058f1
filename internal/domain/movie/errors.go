package movie

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates a rejected mutation; state is unchanged.
	ErrInvalidInput = errors.New("invalid movie input")
	// ErrInvalidName indicates an empty or whitespace-only name.
	ErrInvalidName = fmt.Errorf("%w: name is required", ErrInvalidInput)
	// ErrInvalidStatus indicates a status outside watchlist, watching, watched.
	ErrInvalidStatus = fmt.Errorf("%w: unknown status", ErrInvalidInput)
	// ErrInvalidID indicates a non-positive movie id in seed or persisted data.
	ErrInvalidID = fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	// ErrDuplicateID indicates two records share an id.
	ErrDuplicateID = fmt.Errorf("%w: duplicate id", ErrInvalidInput)
	// ErrMovieNotFound indicates the movie doesn't exist.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrLoadFailed indicates the seed fetch failed.
	ErrLoadFailed = errors.New("failed to fetch movies")
)

// LoadFailure is returned by Store.Load when the seed could not be fetched
// or did not satisfy the collection invariants.
type LoadFailure struct {
	Message string
	Cause   error
}

func (e *LoadFailure) Error() string {
	return e.Message
}

func (e *LoadFailure) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrLoadFailed}
	}
	return []error{ErrLoadFailed, e.Cause}
}

func newLoadFailure(cause error) *LoadFailure {
	msg := ErrLoadFailed.Error()
	if cause != nil && cause.Error() != "" {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &LoadFailure{Message: msg, Cause: cause}
}
