package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/reelboard/internal/domain/movie"
)

// BoardService defines the store operations served over HTTP.
type BoardService interface {
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
	Movies() []movie.Movie
}

// MCPHandler handles MCP method dispatch for the plain JSON-RPC endpoint.
type MCPHandler interface {
	Handle(ctx context.Context, method string, params json.RawMessage) (any, error)
}

// Config wires the HTTP surfaces. RPC and MCP are optional.
type Config struct {
	Board  BoardService
	RPC    MCPHandler
	MCP    http.Handler
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	board  BoardService
	rpc    MCPHandler
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	srv := &Server{board: cfg.Board, rpc: cfg.RPC, logger: logger}

	r.Get("/health", srv.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/board", srv.handleBoard)
		r.Get("/state", srv.handleState)
		r.Post("/load", srv.handleLoad)
		r.Put("/search", srv.handleSearch)
		r.Get("/movies", srv.handleListMovies)
		r.Post("/movies", srv.handleAddMovie)
		r.Put("/movies/{id}/status", srv.handleUpdateStatus)
		r.Put("/movies/{id}/review", srv.handleUpdateReview)
	})

	if cfg.RPC != nil {
		r.Post("/rpc", srv.handleRPC)
	}
	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		rpcErr, _ := toRPCError(err)
		WriteError(w, nil, rpcErr)
		return
	}

	result, err := s.rpc.Handle(r.Context(), req.Method, req.Params)
	if err != nil {
		rpcErr, ok := toRPCError(err)
		if !ok {
			s.logger.Error("rpc failed", "method", req.Method, "error", err)
		}
		WriteError(w, req.ID, rpcErr)
		return
	}

	WriteResult(w, req.ID, result)
}
