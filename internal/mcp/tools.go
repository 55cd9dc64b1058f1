package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *sdkmcp.Server, h *Handler) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ping",
		Description: "Check that the server is alive",
	}, func(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, PingResponse, error) {
		return nil, h.Ping(), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "load_movies",
		Description: "Populate the board from the seed list on first use and return every movie. Safe to call repeatedly; the seed is fetched at most once.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, LoadResponse, error) {
		out, err := h.LoadMovies(ctx)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_load_state",
		Description: "Report the seed loading phase: not-started, in-flight, loaded or failed",
	}, func(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, LoadStateResponse, error) {
		return nil, h.GetLoadState(), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_board",
		Description: "Return the watchlist, watching and watched columns narrowed by the search query",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetBoardParams) (*sdkmcp.CallToolResult, BoardResponse, error) {
		out, err := h.GetBoard(ctx, in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_movies",
		Description: "List movies matching the search query, optionally limited to one status",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListMoviesParams) (*sdkmcp.CallToolResult, MovieListResponse, error) {
		out, err := h.ListMovies(ctx, in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_search_query",
		Description: "Replace the search query used to narrow the board",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetSearchQueryParams) (*sdkmcp.CallToolResult, SearchQueryResponse, error) {
		return nil, h.SetSearchQuery(ctx, in), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_movie",
		Description: "Add a movie to the board. The id is assigned as one more than the highest existing id.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddMovieParams) (*sdkmcp.CallToolResult, MovieResponse, error) {
		out, err := h.AddMovie(ctx, in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "move_movie",
		Description: "Move a movie to another column, keeping its position in the list. An unknown id returns found=false.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in MoveMovieParams) (*sdkmcp.CallToolResult, UpdateResponse, error) {
		out, err := h.MoveMovie(ctx, in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_review",
		Description: "Replace a movie's review text. An unknown id returns found=false.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateReviewParams) (*sdkmcp.CallToolResult, UpdateResponse, error) {
		out, err := h.UpdateReview(ctx, in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_activity",
		Description: "List recent board activity, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecentActivityParams) (*sdkmcp.CallToolResult, ActivityListResponse, error) {
		out, err := h.RecentActivity(ctx, in)
		return nil, out, err
	})
}
