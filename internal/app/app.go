// Package app assembles the movie store from configuration: storage, the
// snapshot saver, the activity log and the seed source.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/reelboard/internal/config"
	"github.com/rpggio/reelboard/internal/domain/activity"
	"github.com/rpggio/reelboard/internal/domain/movie"
	"github.com/rpggio/reelboard/internal/persist"
	"github.com/rpggio/reelboard/internal/seed"
	"github.com/rpggio/reelboard/internal/storage"
)

const closeTimeout = 10 * time.Second

// App owns the store and everything it writes through.
type App struct {
	Store    *movie.Store
	Activity *activity.Service // nil when the storage driver has no activity log

	storage *storage.Storage
	saver   *persist.AsyncSaver
	logger  *slog.Logger
}

// Open opens storage, restores the last snapshot and returns a store ready to
// Load. A restored snapshot marks the store loaded so the seed is not fetched.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	st, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	snap := persist.NewSnapshotter(st.Snapshots, cfg.Storage.Namespace)
	restored, err := snap.Restore(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("restoring snapshot: %w", err)
	}
	for _, rejected := range restored.Rejected {
		logger.Warn("dropped invalid movie record from snapshot", "index", rejected.Index, "id", rejected.ID, "error", rejected.Err)
	}

	var activitySvc *activity.Service
	var activityLogger movie.ActivityLogger
	if st.Activity != nil {
		activitySvc = activity.NewService(st.Activity, cfg.Storage.Namespace, logger)
		activityLogger = activitySvc
	}

	saver := persist.NewAsyncSaver(snap, logger)
	store := movie.NewStore(seedSource(cfg.Seed), saver, activityLogger, logger)

	if restored.Found {
		store.ReserveIDs(restored.IDFloor)
		if err := store.Restore(ctx, restored.Movies); err != nil {
			saver.Close(ctx)
			st.Close()
			return nil, err
		}
		logger.Info("snapshot restored", "namespace", cfg.Storage.Namespace, "count", len(restored.Movies), "rejected", len(restored.Rejected))
	}

	return &App{
		Store:    store,
		Activity: activitySvc,
		storage:  st,
		saver:    saver,
		logger:   logger,
	}, nil
}

func seedSource(cfg config.SeedConfig) movie.SeedSource {
	if cfg.Path != "" {
		return seed.NewFile(cfg.Path, cfg.Delay)
	}
	return seed.NewFixture(cfg.Delay)
}

// Close flushes the pending snapshot, then closes storage.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	flushErr := a.saver.Close(ctx)
	if flushErr != nil {
		a.logger.Error("failed to flush snapshot", "error", flushErr)
	}
	return errors.Join(flushErr, a.storage.Close())
}
