package mcp

import (
	"time"

	"github.com/rpggio/reelboard/internal/domain/activity"
	"github.com/rpggio/reelboard/internal/domain/movie"
)

type EmptyParams struct{}

type GetBoardParams struct {
	Query *string `json:"query,omitempty" jsonschema:"replace the search query before building the board"`
}

type ListMoviesParams struct {
	Status string `json:"status,omitempty" jsonschema:"only movies in this column: watchlist, watching or watched"`
}

type SetSearchQueryParams struct {
	Query string `json:"query" jsonschema:"case-insensitive substring matched against movie names; blank clears the filter"`
}

type AddMovieParams struct {
	Name   string `json:"name" jsonschema:"movie title, must not be blank"`
	Status string `json:"status,omitempty" jsonschema:"initial column, defaults to watchlist"`
	Review string `json:"review,omitempty" jsonschema:"free-form review text"`
}

type MoveMovieParams struct {
	ID     int64  `json:"id" jsonschema:"movie id"`
	Status string `json:"status" jsonschema:"target column: watchlist, watching or watched"`
}

type UpdateReviewParams struct {
	ID     int64  `json:"id" jsonschema:"movie id"`
	Review string `json:"review" jsonschema:"replacement review text, may be empty"`
}

type RecentActivityParams struct {
	MovieID *int64 `json:"movie_id,omitempty" jsonschema:"only entries for this movie"`
	Type    string `json:"type,omitempty" jsonschema:"only entries of this activity type"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum entries to return (default 20)"`
	Offset  int    `json:"offset,omitempty" jsonschema:"entries to skip"`
}

type PingResponse struct {
	Status string `json:"status"`
}

type LoadStateResponse struct {
	Phase movie.LoadPhase `json:"phase"`
	Error string          `json:"error,omitempty"`
}

type LoadResponse struct {
	Phase  movie.LoadPhase `json:"phase"`
	Error  string          `json:"error,omitempty"`
	Movies []movie.Movie   `json:"movies"`
}

type BoardResponse struct {
	Query     string            `json:"query"`
	Load      LoadStateResponse `json:"load"`
	Watchlist []movie.Movie     `json:"watchlist"`
	Watching  []movie.Movie     `json:"watching"`
	Watched   []movie.Movie     `json:"watched"`
}

type MovieListResponse struct {
	Query  string        `json:"query"`
	Status string        `json:"status,omitempty"`
	Movies []movie.Movie `json:"movies"`
}

type SearchQueryResponse struct {
	Query   string `json:"query"`
	Matches int    `json:"matches"`
}

type MovieResponse struct {
	Movie movie.Movie `json:"movie"`
}

type UpdateResponse struct {
	Found   bool         `json:"found"`
	Changed bool         `json:"changed"`
	Movie   *movie.Movie `json:"movie,omitempty"`
}

type ActivityEntryResponse struct {
	ID        int64  `json:"id"`
	MovieID   *int64 `json:"movie_id,omitempty"`
	Type      string `json:"type"`
	Summary   string `json:"summary"`
	CreatedAt string `json:"created_at"`
}

type ActivityListResponse struct {
	Enabled bool                    `json:"enabled"`
	Entries []ActivityEntryResponse `json:"entries"`
}

func toLoadStateResponse(state movie.LoadState) LoadStateResponse {
	return LoadStateResponse{Phase: state.Phase, Error: state.Error}
}

func toUpdateResponse(res movie.UpdateResult) UpdateResponse {
	return UpdateResponse{Found: res.Found, Changed: res.Changed, Movie: res.Movie}
}

func toActivityEntries(entries []activity.Entry) []ActivityEntryResponse {
	out := make([]ActivityEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ActivityEntryResponse{
			ID:        e.ID,
			MovieID:   e.MovieID,
			Type:      string(e.Type),
			Summary:   e.Summary,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return out
}

// nonNil keeps empty columns serialized as [] rather than null.
func nonNil(movies []movie.Movie) []movie.Movie {
	if movies == nil {
		return []movie.Movie{}
	}
	return movies
}
