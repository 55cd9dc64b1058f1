// Package filestore keeps one snapshot file per namespace in a directory.
package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/natefinch/atomic"
	"github.com/rpggio/reelboard/internal/repository"
)

var namespacePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Repository implements repository.SnapshotRepository on the local filesystem.
// Each write replaces the file atomically.
type Repository struct {
	dir string
}

// New creates the directory if needed and returns a repository rooted at it.
func New(dir string) (*Repository, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: storage directory is required", repository.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Repository{dir: dir}, nil
}

// Dir returns the directory snapshots are written to.
func (r *Repository) Dir() string {
	return r.dir
}

// Put replaces the snapshot for namespace.
func (r *Repository) Put(ctx context.Context, namespace string, payload []byte) error {
	path, err := r.path(namespace)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("write snapshot %s: %w", namespace, err)
	}
	return nil
}

// Get returns the snapshot for namespace, or repository.ErrNotFound.
func (r *Repository) Get(ctx context.Context, namespace string) ([]byte, error) {
	path, err := r.path(namespace)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", namespace, err)
	}
	return data, nil
}

func (r *Repository) path(namespace string) (string, error) {
	if !namespacePattern.MatchString(namespace) {
		return "", fmt.Errorf("%w: namespace %q", repository.ErrInvalidInput, namespace)
	}
	return filepath.Join(r.dir, namespace+".json"), nil
}
