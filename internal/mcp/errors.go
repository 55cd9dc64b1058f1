package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/reelboard/internal/domain/activity"
	"github.com/rpggio/reelboard/internal/domain/movie"
)

// Stable error codes returned to MCP clients.
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeInvalidStatus = "INVALID_STATUS"
	CodeLoadFailed    = "LOAD_FAILED"
	CodeMovieNotFound = "MOVIE_NOT_FOUND"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. It returns nil for errors
// with no client-facing code.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	// A load failure may wrap a validation cause; the load failure wins.
	case errors.Is(err, movie.ErrLoadFailed):
		return &APIError{Code: CodeLoadFailed, Message: err.Error(), RecoveryHint: "Call load_movies again to retry"}
	case errors.Is(err, movie.ErrInvalidStatus):
		return &APIError{Code: CodeInvalidStatus, Message: "status must be watchlist, watching or watched"}
	case errors.Is(err, movie.ErrInvalidName):
		return &APIError{Code: CodeInvalidInput, Message: "name must not be blank"}
	case errors.Is(err, movie.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: CodeInvalidInput, Message: err.Error()}
	case errors.Is(err, movie.ErrMovieNotFound):
		return &APIError{Code: CodeMovieNotFound, Message: "movie not found", RecoveryHint: "Check the id with list_movies"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
