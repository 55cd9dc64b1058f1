package mocks

import (
	"context"

	"github.com/rpggio/reelboard/internal/domain/activity"
	"github.com/rpggio/reelboard/internal/domain/movie"
	"github.com/stretchr/testify/mock"
)

// SnapshotRepository is a mock for repository.SnapshotRepository.
type SnapshotRepository struct {
	mock.Mock
}

func (m *SnapshotRepository) Put(ctx context.Context, namespace string, payload []byte) error {
	args := m.Called(ctx, namespace, payload)
	return args.Error(0)
}

func (m *SnapshotRepository) Get(ctx context.Context, namespace string) ([]byte, error) {
	args := m.Called(ctx, namespace)
	if payload, ok := args.Get(0).([]byte); ok {
		return payload, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, namespace string, entry *activity.Entry) error {
	args := m.Called(ctx, namespace, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, namespace string, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, namespace, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SeedSource is a mock for movie.SeedSource.
type SeedSource struct {
	mock.Mock
}

func (m *SeedSource) FetchSeed(ctx context.Context) ([]movie.Movie, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]movie.Movie); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Saver is a mock for movie.Saver.
type Saver struct {
	mock.Mock
}

func (m *Saver) Save(ctx context.Context, movies []movie.Movie) error {
	args := m.Called(ctx, movies)
	return args.Error(0)
}

// ActivityLogger is a mock for movie.ActivityLogger.
type ActivityLogger struct {
	mock.Mock
}

func (m *ActivityLogger) LogActivity(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
