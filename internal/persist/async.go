package persist

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/rpggio/reelboard/internal/domain/movie"
)

const writeTimeout = 10 * time.Second

// ErrSaverClosed is returned by Save after Close.
var ErrSaverClosed = errors.New("saver is closed")

// AsyncSaver implements movie.Saver without blocking the caller on I/O.
// Save parks the snapshot in a one-slot mailbox where a newer snapshot replaces
// an unwritten older one; a background goroutine writes whatever is parked.
type AsyncSaver struct {
	snap   *Snapshotter
	logger *slog.Logger

	mu      sync.Mutex
	pending []movie.Movie
	queued  bool
	closed  bool
	writes  int
	lastErr error

	wake      chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewAsyncSaver starts the writer goroutine. Call Close to flush and stop it.
func NewAsyncSaver(snap *Snapshotter, logger *slog.Logger) *AsyncSaver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &AsyncSaver{
		snap:   snap,
		logger: logger,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// Save queues movies for writing and returns immediately.
func (a *AsyncSaver) Save(_ context.Context, movies []movie.Movie) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrSaverClosed
	}
	a.pending = slices.Clone(movies)
	a.queued = true
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close writes any queued snapshot and stops the writer. It returns ctx.Err()
// if ctx ends first; the writer still finishes in the background.
func (a *AsyncSaver) Close(ctx context.Context) error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		a.mu.Unlock()
		close(a.stop)
	})

	select {
	case <-a.done:
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.lastErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Writes reports how many snapshots reached the repository.
func (a *AsyncSaver) Writes() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.writes
}

func (a *AsyncSaver) run() {
	defer close(a.done)
	for {
		select {
		case <-a.wake:
			a.flush()
		case <-a.stop:
			a.flush()
			return
		}
	}
}

func (a *AsyncSaver) flush() {
	a.mu.Lock()
	if !a.queued {
		a.mu.Unlock()
		return
	}
	movies := a.pending
	a.pending, a.queued = nil, false
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	err := a.snap.Save(ctx, movies)

	a.mu.Lock()
	a.lastErr = err
	if err == nil {
		a.writes++
	}
	a.mu.Unlock()

	if err != nil {
		a.logger.Error("snapshot write failed", "namespace", a.snap.Namespace(), "error", err)
		return
	}
	a.logger.Debug("snapshot written", "namespace", a.snap.Namespace(), "count", len(movies))
}

var _ movie.Saver = (*AsyncSaver)(nil)
