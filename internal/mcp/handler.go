package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpggio/reelboard/internal/domain/activity"
	"github.com/rpggio/reelboard/internal/domain/movie"
)

const defaultActivityLimit = 20

// ErrUnknownMethod is returned by Handle for a method with no tool.
var ErrUnknownMethod = errors.New("unknown method")

// Handler implements the board tools on top of the store.
type Handler struct {
	store    BoardStore
	activity ActivityService
}

// NewHandler creates a new MCP handler. activitySvc may be nil.
func NewHandler(store BoardStore, activitySvc ActivityService) *Handler {
	return &Handler{store: store, activity: activitySvc}
}

// Handle dispatches a method by name with raw JSON params.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "ping":
		return h.Ping(), nil
	case "load_movies":
		return h.LoadMovies(ctx)
	case "get_load_state":
		return h.GetLoadState(), nil
	case "get_board":
		var req GetBoardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.GetBoard(ctx, req)
	case "list_movies":
		var req ListMoviesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.ListMovies(ctx, req)
	case "set_search_query":
		var req SetSearchQueryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.SetSearchQuery(ctx, req), nil
	case "add_movie":
		var req AddMovieParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.AddMovie(ctx, req)
	case "move_movie":
		var req MoveMovieParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.MoveMovie(ctx, req)
	case "update_review":
		var req UpdateReviewParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.UpdateReview(ctx, req)
	case "recent_activity":
		var req RecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.RecentActivity(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func (h *Handler) Ping() PingResponse {
	return PingResponse{Status: "ok"}
}

// LoadMovies runs the one-time seed load and returns every movie.
func (h *Handler) LoadMovies(ctx context.Context) (LoadResponse, error) {
	movies, err := h.store.Load(ctx)
	if err != nil {
		return LoadResponse{}, mapError(err)
	}
	state := h.store.LoadState()
	return LoadResponse{Phase: state.Phase, Error: state.Error, Movies: nonNil(movies)}, nil
}

func (h *Handler) GetLoadState() LoadStateResponse {
	return toLoadStateResponse(h.store.LoadState())
}

// GetBoard returns the three columns narrowed by the search query. When the
// params carry a query it replaces the current one first.
func (h *Handler) GetBoard(_ context.Context, req GetBoardParams) (BoardResponse, error) {
	if req.Query != nil {
		h.store.SetSearchQuery(*req.Query)
	}
	board := h.store.SelectBoard()
	return BoardResponse{
		Query:     board.Query,
		Load:      toLoadStateResponse(h.store.LoadState()),
		Watchlist: nonNil(board.Watchlist),
		Watching:  nonNil(board.Watching),
		Watched:   nonNil(board.Watched),
	}, nil
}

func (h *Handler) ListMovies(_ context.Context, req ListMoviesParams) (MovieListResponse, error) {
	if req.Status == "" {
		return MovieListResponse{Query: h.store.SearchQuery(), Movies: nonNil(h.store.SelectFiltered())}, nil
	}
	status, err := movie.ParseStatus(req.Status)
	if err != nil {
		return MovieListResponse{}, mapError(err)
	}
	return MovieListResponse{
		Query:  h.store.SearchQuery(),
		Status: string(status),
		Movies: nonNil(h.store.SelectByStatus(status)),
	}, nil
}

func (h *Handler) SetSearchQuery(_ context.Context, req SetSearchQueryParams) SearchQueryResponse {
	h.store.SetSearchQuery(req.Query)
	return SearchQueryResponse{Query: req.Query, Matches: len(h.store.SelectFiltered())}
}

func (h *Handler) AddMovie(ctx context.Context, req AddMovieParams) (MovieResponse, error) {
	var status movie.Status
	if req.Status != "" {
		parsed, err := movie.ParseStatus(req.Status)
		if err != nil {
			return MovieResponse{}, mapError(err)
		}
		status = parsed
	}
	m, err := h.store.AddMovie(ctx, movie.AddRequest{Name: req.Name, Status: status, Review: req.Review})
	if err != nil {
		return MovieResponse{}, mapError(err)
	}
	return MovieResponse{Movie: m}, nil
}

// MoveMovie changes a movie's column. An unknown id succeeds with found=false.
func (h *Handler) MoveMovie(ctx context.Context, req MoveMovieParams) (UpdateResponse, error) {
	status, err := movie.ParseStatus(req.Status)
	if err != nil {
		return UpdateResponse{}, mapError(err)
	}
	res, err := h.store.UpdateStatus(ctx, req.ID, status)
	if err != nil {
		return UpdateResponse{}, mapError(err)
	}
	return toUpdateResponse(res), nil
}

// UpdateReview replaces a movie's review. An unknown id succeeds with found=false.
func (h *Handler) UpdateReview(ctx context.Context, req UpdateReviewParams) (UpdateResponse, error) {
	res, err := h.store.UpdateReview(ctx, req.ID, req.Review)
	if err != nil {
		return UpdateResponse{}, mapError(err)
	}
	return toUpdateResponse(res), nil
}

func (h *Handler) RecentActivity(ctx context.Context, req RecentActivityParams) (ActivityListResponse, error) {
	if h.activity == nil {
		return ActivityListResponse{Enabled: false, Entries: []ActivityEntryResponse{}}, nil
	}

	opts := activity.ListOptions{MovieID: req.MovieID, Limit: req.Limit, Offset: req.Offset}
	if opts.Limit == 0 {
		opts.Limit = defaultActivityLimit
	}
	if req.Type != "" {
		t := activity.Type(req.Type)
		opts.Type = &t
	}

	entries, err := h.activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return ActivityListResponse{}, mapError(err)
	}
	return ActivityListResponse{Enabled: true, Entries: toActivityEntries(entries)}, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: CodeInvalidInput, Message: fmt.Sprintf("invalid params: %v", err)}
	}
	return nil
}
