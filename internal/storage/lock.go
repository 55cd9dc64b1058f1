package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/rpggio/reelboard/internal/repository"
)

const (
	lockTimeout    = 2 * time.Second
	lockRetryDelay = 50 * time.Millisecond
)

// Lock is an exclusive cross-process lock held for the life of the process.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock takes an exclusive lock on path, retrying until lockTimeout.
// It returns repository.ErrLocked when another process keeps holding it.
func AcquireLock(ctx context.Context, path string) (*Lock, error) {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	fl := flock.New(path)
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if errors.Is(err, context.DeadlineExceeded) || (err == nil && !locked) {
		return nil, fmt.Errorf("%w: %s", repository.ErrLocked, path)
	}
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	return &Lock{fl: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.fl.Path()
}

// Release drops the lock. It is safe on a nil Lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	return l.fl.Unlock()
}
