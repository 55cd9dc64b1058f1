package activity

import "time"

// Type represents the type of activity event
type Type string

const (
	TypeSeedLoaded       Type = "seed_loaded"
	TypeSeedFailed       Type = "seed_failed"
	TypeSnapshotRestored Type = "snapshot_restored"
	TypeMovieAdded       Type = "movie_added"
	TypeStatusChanged    Type = "status_changed"
	TypeReviewUpdated    Type = "review_updated"
)

// Entry represents an event in the activity log
type Entry struct {
	ID        int64     `json:"id"`
	Namespace string    `json:"namespace"`
	MovieID   *int64    `json:"movie_id,omitempty"`
	Type      Type      `json:"type"`
	Summary   string    `json:"summary"`
	Details   string    `json:"details,omitempty"` // JSON string
	CreatedAt time.Time `json:"created_at"`
}
