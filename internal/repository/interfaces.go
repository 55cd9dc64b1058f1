package repository

import (
	"context"

	"github.com/rpggio/reelboard/internal/domain/activity"
)

// SnapshotRepository stores one opaque snapshot payload per namespace
type SnapshotRepository interface {
	Put(ctx context.Context, namespace string, payload []byte) error
	Get(ctx context.Context, namespace string) ([]byte, error)
}

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, namespace string, entry *activity.Entry) error
	List(ctx context.Context, namespace string, opts activity.ListOptions) ([]activity.Entry, error)
}
