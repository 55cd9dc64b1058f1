package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/reelboard/internal/domain/activity"
	"github.com/rpggio/reelboard/internal/domain/movie"
)

// BoardStore defines the movie store operations needed by MCP.
type BoardStore interface {
	Load(ctx context.Context) ([]movie.Movie, error)
	LoadState() movie.LoadState
	SetSearchQuery(query string)
	SearchQuery() string
	AddMovie(ctx context.Context, req movie.AddRequest) (movie.Movie, error)
	UpdateStatus(ctx context.Context, id int64, status movie.Status) (movie.UpdateResult, error)
	UpdateReview(ctx context.Context, id int64, review string) (movie.UpdateResult, error)
	SelectFiltered() []movie.Movie
	SelectByStatus(status movie.Status) []movie.Movie
	SelectBoard() movie.Board
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// Config contains server configuration. Activity may be nil.
type Config struct {
	Store    BoardStore
	Activity ActivityService
	Logger   *slog.Logger
	Version  string
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "reelboard",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Store, cfg.Activity))

	return server
}
