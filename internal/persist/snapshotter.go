// Package persist connects the movie store to a snapshot repository.
package persist

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rpggio/reelboard/internal/codec"
	"github.com/rpggio/reelboard/internal/domain/movie"
	"github.com/rpggio/reelboard/internal/repository"
)

// Snapshotter reads and writes the movie snapshot for one namespace.
// It carries the id floor read by Restore into every later Save, so ids of
// dropped records stay retired.
type Snapshotter struct {
	repo      repository.SnapshotRepository
	namespace string
	idFloor   atomic.Int64
}

// NewSnapshotter binds repo to namespace.
func NewSnapshotter(repo repository.SnapshotRepository, namespace string) *Snapshotter {
	return &Snapshotter{repo: repo, namespace: namespace}
}

// Namespace returns the namespace snapshots are stored under.
func (s *Snapshotter) Namespace() string {
	return s.namespace
}

// Save encodes movies and replaces the stored snapshot.
func (s *Snapshotter) Save(ctx context.Context, movies []movie.Movie) error {
	payload, err := codec.EncodeSnapshot(movies, s.idFloor.Load())
	if err != nil {
		return err
	}
	if err := s.repo.Put(ctx, s.namespace, payload); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Restored is the outcome of reading a stored snapshot. IDFloor is the
// highest retired id; the store must not assign it or anything below it again.
type Restored struct {
	Found    bool
	Movies   []movie.Movie
	Rejected []codec.RecordError
	IDFloor  int64
}

// Restore reads the stored snapshot. A missing snapshot is not an error and
// yields Found=false. Records that fail strict decoding are dropped and listed
// in Rejected; the rest survive.
func (s *Snapshotter) Restore(ctx context.Context) (Restored, error) {
	payload, err := s.repo.Get(ctx, s.namespace)
	if errors.Is(err, repository.ErrNotFound) {
		return Restored{}, nil
	}
	if err != nil {
		return Restored{}, fmt.Errorf("reading snapshot: %w", err)
	}

	decoded, err := codec.DecodeSnapshot(payload)
	if err != nil {
		return Restored{}, err
	}
	s.idFloor.Store(decoded.IDFloor)
	return Restored{Found: true, Movies: decoded.Movies, Rejected: decoded.Rejected, IDFloor: decoded.IDFloor}, nil
}
