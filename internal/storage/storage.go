// Package storage opens the configured snapshot backend and guards it
// against a second writer process.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/rpggio/reelboard/internal/config"
	"github.com/rpggio/reelboard/internal/filestore"
	"github.com/rpggio/reelboard/internal/repository"
	"github.com/rpggio/reelboard/internal/sqlite"
)

// Storage is an opened backend. Activity is nil for drivers without an activity log.
type Storage struct {
	Snapshots repository.SnapshotRepository
	Activity  repository.ActivityRepository

	db   *sqlite.DB
	lock *Lock
}

// Open opens the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch cfg.Driver {
	case config.DriverSQLite, "":
		return openSQLite(ctx, cfg.DBPath, logger)
	case config.DriverFile:
		return openFile(ctx, cfg.Dir, logger)
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", repository.ErrInvalidInput, cfg.Driver)
	}
}

func openSQLite(ctx context.Context, path string, logger *slog.Logger) (*Storage, error) {
	var lock *Lock
	if !isMemoryDSN(path) {
		var err error
		if lock, err = AcquireLock(ctx, path+".lock"); err != nil {
			return nil, err
		}
	}

	db, err := sqlite.New(path)
	if err != nil {
		lock.Release()
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		lock.Release()
		return nil, err
	}

	logger.Info("storage opened", "driver", config.DriverSQLite, "path", path)
	return &Storage{
		Snapshots: sqlite.NewSnapshotRepository(db),
		Activity:  sqlite.NewActivityRepository(db),
		db:        db,
		lock:      lock,
	}, nil
}

func openFile(ctx context.Context, dir string, logger *slog.Logger) (*Storage, error) {
	repo, err := filestore.New(dir)
	if err != nil {
		return nil, err
	}
	lock, err := AcquireLock(ctx, filepath.Join(dir, ".lock"))
	if err != nil {
		return nil, err
	}

	logger.Info("storage opened", "driver", config.DriverFile, "dir", dir)
	return &Storage{Snapshots: repo, lock: lock}, nil
}

// Close closes the database and releases the process lock.
func (s *Storage) Close() error {
	var errs []error
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	errs = append(errs, s.lock.Release())
	return errors.Join(errs...)
}

func isMemoryDSN(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:") || strings.Contains(path, "mode=memory")
}
