package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/reelboard/internal/domain/movie"
	"github.com/rpggio/reelboard/internal/mcp"
)

type boardResponse struct {
	movie.Board
	Load movie.LoadState `json:"load"`
}

type stateResponse struct {
	movie.LoadState
	Query string `json:"query"`
	Count int    `json:"count"`
}

type loadResponse struct {
	Phase  movie.LoadPhase `json:"phase"`
	Movies []movie.Movie   `json:"movies"`
}

type moviesResponse struct {
	Query  string        `json:"query"`
	Status movie.Status  `json:"status,omitempty"`
	Movies []movie.Movie `json:"movies"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Query   string `json:"query"`
	Matches int    `json:"matches"`
}

type addMovieRequest struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Review string `json:"review"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type reviewRequest struct {
	Review string `json:"review"`
}

type updateResponse struct {
	movie.UpdateResult
	Error *errorBody `json:"error,omitempty"`
}

// handleBoard returns the three columns. A q parameter, even an empty one,
// replaces the search query first.
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	if values := r.URL.Query(); values.Has("q") {
		s.board.SetSearchQuery(values.Get("q"))
	}
	board := s.board.SelectBoard()
	board.Watchlist = nonNil(board.Watchlist)
	board.Watching = nonNil(board.Watching)
	board.Watched = nonNil(board.Watched)
	writeJSON(w, http.StatusOK, boardResponse{Board: board, Load: s.board.LoadState()})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse{
		LoadState: s.board.LoadState(),
		Query:     s.board.SearchQuery(),
		Count:     len(s.board.Movies()),
	})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	movies, err := s.board.Load(r.Context())
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, loadResponse{Phase: s.board.LoadState().Phase, Movies: nonNil(movies)})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.board.SetSearchQuery(req.Query)
	writeJSON(w, http.StatusOK, searchResponse{Query: req.Query, Matches: len(s.board.SelectFiltered())})
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		writeJSON(w, http.StatusOK, moviesResponse{Query: s.board.SearchQuery(), Movies: nonNil(s.board.SelectFiltered())})
		return
	}
	status, err := movie.ParseStatus(raw)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, moviesResponse{
		Query:  s.board.SearchQuery(),
		Status: status,
		Movies: nonNil(s.board.SelectByStatus(status)),
	})
}

func (s *Server) handleAddMovie(w http.ResponseWriter, r *http.Request) {
	var req addMovieRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var status movie.Status
	if req.Status != "" {
		parsed, err := movie.ParseStatus(req.Status)
		if err != nil {
			writeDomainError(w, s.logger, err)
			return
		}
		status = parsed
	}

	m, err := s.board.AddMovie(r.Context(), movie.AddRequest{Name: req.Name, Status: status, Review: req.Review})
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	status, err := movie.ParseStatus(req.Status)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}

	res, err := s.board.UpdateStatus(r.Context(), id, status)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeUpdate(w, id, res)
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.board.UpdateReview(r.Context(), id, req.Review)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeUpdate(w, id, res)
}

// writeUpdate reports an unknown id as 404 while keeping the found=false body,
// since the store treats it as a no-op rather than a failure.
func writeUpdate(w http.ResponseWriter, id int64, res movie.UpdateResult) {
	if !res.Found {
		writeJSON(w, http.StatusNotFound, updateResponse{
			UpdateResult: res,
			Error:        &errorBody{Code: mcp.CodeMovieNotFound, Message: fmt.Sprintf("movie %d not found", id)},
		})
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{UpdateResult: res})
}

func movieID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeErrorCode(w, http.StatusBadRequest, mcp.CodeInvalidInput, "movie id must be a positive integer")
		return 0, false
	}
	return id, true
}

func nonNil(movies []movie.Movie) []movie.Movie {
	if movies == nil {
		return []movie.Movie{}
	}
	return movies
}
