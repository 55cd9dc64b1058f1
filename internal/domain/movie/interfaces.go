package movie

import (
	"context"

	"github.com/rpggio/reelboard/internal/domain/activity"
)

// SeedSource supplies the initial collection.
type SeedSource interface {
	FetchSeed(ctx context.Context) ([]Movie, error)
}

// Saver persists the movie collection after each successful mutation.
// Save is called with the store's write lock held; it should hand the
// snapshot off quickly and must not call back into the store.
type Saver interface {
	Save(ctx context.Context, movies []Movie) error
}

// ActivityLogger records store events.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.Entry) error
}
