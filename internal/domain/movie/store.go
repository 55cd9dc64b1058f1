package movie

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/rpggio/reelboard/internal/domain/activity"
	"golang.org/x/sync/singleflight"
)

const seedFlightKey = "seed"

// AddRequest describes a movie creation request.
type AddRequest struct {
	Name   string
	Status Status
	Review string
}

// Store is the single source of truth for the movie collection and the search query.
// It is safe for concurrent use; every operation is atomic with respect to the others.
type Store struct {
	mu      sync.RWMutex
	movies  []Movie
	query   string
	load    LoadState
	idFloor int64 // highest id retired outside the collection

	flight     singleflight.Group
	seed       SeedSource
	saver      Saver
	activities ActivityLogger
	logger     *slog.Logger
}

// NewStore creates an empty store in the not-started phase.
// saver, activities and logger may be nil.
func NewStore(seed SeedSource, saver Saver, activities ActivityLogger, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		movies:     []Movie{},
		load:       phaseState(PhaseNotStarted),
		seed:       seed,
		saver:      saver,
		activities: activities,
		logger:     logger,
	}
}

// Restore installs a previously persisted collection and marks the store loaded,
// so the seed is never fetched over it. It does not trigger a save.
func (s *Store) Restore(ctx context.Context, movies []Movie) error {
	if err := ValidateCollection(movies); err != nil {
		return fmt.Errorf("restoring movies: %w", err)
	}

	s.mu.Lock()
	s.movies = slices.Clone(movies)
	s.load = phaseState(PhaseLoaded)
	s.mu.Unlock()

	s.logActivity(ctx, &activity.Entry{
		Type:    activity.TypeSnapshotRestored,
		Summary: fmt.Sprintf("restored %d movies", len(movies)),
	})
	return nil
}

// Load populates the store from the seed source exactly once.
// Once loaded it returns the current movies without fetching again. Concurrent
// callers while a fetch is in flight wait for that fetch instead of starting another.
//
// The fetch is not tied to any caller: a caller whose ctx ends stops waiting
// and gets ctx.Err(), while the fetch runs to completion for everyone else.
func (s *Store) Load(ctx context.Context) ([]Movie, error) {
	s.mu.RLock()
	if s.load.Phase == PhaseLoaded {
		movies := slices.Clone(s.movies)
		s.mu.RUnlock()
		return movies, nil
	}
	s.mu.RUnlock()

	fetchCtx := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(seedFlightKey, func() (any, error) {
		return s.fetchSeed(fetchCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]Movie)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Store) fetchSeed(ctx context.Context) ([]Movie, error) {
	s.mu.Lock()
	if s.load.Phase == PhaseLoaded {
		movies := slices.Clone(s.movies)
		s.mu.Unlock()
		return movies, nil
	}
	s.load = phaseState(PhaseInFlight)
	s.mu.Unlock()

	s.logger.Debug("fetching seed movies")

	var movies []Movie
	var err error
	if s.seed == nil {
		err = errors.New("no seed source configured")
	} else {
		movies, err = s.seed.FetchSeed(ctx)
	}
	if err == nil {
		err = ValidateCollection(movies)
	}
	if err != nil {
		failure := newLoadFailure(err)
		s.mu.Lock()
		s.load = failedState(failure.Message)
		s.mu.Unlock()

		s.logger.Warn("seed fetch failed", "error", err)
		s.logActivity(ctx, &activity.Entry{
			Type:    activity.TypeSeedFailed,
			Summary: failure.Message,
		})
		return nil, failure
	}

	s.mu.Lock()
	s.movies = slices.Clone(movies)
	if s.movies == nil {
		s.movies = []Movie{}
	}
	s.load = phaseState(PhaseLoaded)
	snapshot := slices.Clone(s.movies)
	s.save(ctx, slices.Clone(snapshot))
	s.mu.Unlock()

	s.logger.Info("seed movies loaded", "count", len(snapshot))
	s.logActivity(ctx, &activity.Entry{
		Type:    activity.TypeSeedLoaded,
		Summary: fmt.Sprintf("loaded %d seed movies", len(snapshot)),
	})
	return snapshot, nil
}

// SetSearchQuery replaces the search query. It never fails and never touches the movies.
func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
}

// AddMovie appends a new movie with id one greater than the current maximum.
func (s *Store) AddMovie(ctx context.Context, req AddRequest) (Movie, error) {
	if err := ValidateAddRequest(req); err != nil {
		return Movie{}, err
	}

	status := req.Status
	if status == "" {
		status = StatusWatchlist
	}

	s.mu.Lock()
	m := Movie{
		ID:     s.nextIDLocked(),
		Name:   strings.TrimSpace(req.Name),
		Review: req.Review,
		Status: status,
	}
	s.movies = append(s.movies, m)
	s.save(ctx, slices.Clone(s.movies))
	s.mu.Unlock()

	s.logActivity(ctx, &activity.Entry{
		MovieID: &m.ID,
		Type:    activity.TypeMovieAdded,
		Summary: fmt.Sprintf("added %q to %s", m.Name, m.Status),
	})
	return m, nil
}

// UpdateStatus moves a movie to another column in place.
// An unknown id is a no-op reported through UpdateResult.Found.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status Status) (UpdateResult, error) {
	if !status.Valid() {
		return UpdateResult{}, ErrInvalidStatus
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug("status update for unknown movie", "movie_id", id)
		return UpdateResult{Found: false}, nil
	}
	from := s.movies[idx].Status
	if from == status {
		m := s.movies[idx]
		s.mu.Unlock()
		return UpdateResult{Found: true, Changed: false, Movie: &m}, nil
	}
	s.movies[idx].Status = status
	m := s.movies[idx]
	s.save(ctx, slices.Clone(s.movies))
	s.mu.Unlock()

	s.logActivity(ctx, &activity.Entry{
		MovieID: &m.ID,
		Type:    activity.TypeStatusChanged,
		Summary: fmt.Sprintf("moved %q from %s to %s", m.Name, from, status),
	})
	return UpdateResult{Found: true, Changed: true, Movie: &m}, nil
}

// UpdateReview replaces a movie's review.
// An unknown id is a no-op reported through UpdateResult.Found.
func (s *Store) UpdateReview(ctx context.Context, id int64, review string) (UpdateResult, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug("review update for unknown movie", "movie_id", id)
		return UpdateResult{Found: false}, nil
	}
	if s.movies[idx].Review == review {
		m := s.movies[idx]
		s.mu.Unlock()
		return UpdateResult{Found: true, Changed: false, Movie: &m}, nil
	}
	s.movies[idx].Review = review
	m := s.movies[idx]
	s.save(ctx, slices.Clone(s.movies))
	s.mu.Unlock()

	s.logActivity(ctx, &activity.Entry{
		MovieID: &m.ID,
		Type:    activity.TypeReviewUpdated,
		Summary: fmt.Sprintf("updated review for %q", m.Name),
	})
	return UpdateResult{Found: true, Changed: true, Movie: &m}, nil
}

// SelectFiltered returns the movies matching the current search query, in order.
func (s *Store) SelectFiltered() []Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterByQuery(s.movies, s.query)
}

// SelectByStatus returns the movies in one column, narrowed by the search query first.
func (s *Store) SelectByStatus(status Status) []Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterByStatus(FilterByQuery(s.movies, s.query), status)
}

// SelectBoard returns all three columns from one consistent read.
func (s *Store) SelectBoard() Board {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := FilterByQuery(s.movies, s.query)
	return Board{
		Query:     s.query,
		Watchlist: FilterByStatus(filtered, StatusWatchlist),
		Watching:  FilterByStatus(filtered, StatusWatching),
		Watched:   FilterByStatus(filtered, StatusWatched),
	}
}

// Get returns a movie by id.
func (s *Store) Get(id int64) (Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return Movie{}, ErrMovieNotFound
	}
	return s.movies[idx], nil
}

// Movies returns a copy of the full, unfiltered collection.
func (s *Store) Movies() []Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.movies)
}

// SearchQuery returns the current search query.
func (s *Store) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// LoadState returns the current seed loading phase and error.
func (s *Store) LoadState() LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load
}

// ReserveIDs retires every id up to and including highest, so AddMovie
// never hands one out. Used for ids of persisted records dropped on restore.
func (s *Store) ReserveIDs(highest int64) {
	s.mu.Lock()
	s.idFloor = max(s.idFloor, highest)
	s.mu.Unlock()
}

func (s *Store) nextIDLocked() int64 {
	highest := s.idFloor
	for _, m := range s.movies {
		if m.ID > highest {
			highest = m.ID
		}
	}
	return highest + 1
}

func (s *Store) indexLocked(id int64) int {
	return slices.IndexFunc(s.movies, func(m Movie) bool { return m.ID == id })
}

// save runs with the write lock held so snapshots reach the saver in mutation order.
func (s *Store) save(ctx context.Context, movies []Movie) {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(ctx, movies); err != nil {
		s.logger.Error("failed to persist movies", "error", err)
	}
}

func (s *Store) logActivity(ctx context.Context, entry *activity.Entry) {
	if s.activities == nil {
		return
	}
	if err := s.activities.LogActivity(ctx, entry); err != nil {
		s.logger.Warn("failed to log activity", "type", entry.Type, "error", err)
	}
}
