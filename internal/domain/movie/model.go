package movie

// Status is the board column a movie sits in.
type Status string

const (
	StatusWatchlist Status = "watchlist"
	StatusWatching  Status = "watching"
	StatusWatched   Status = "watched"
)

// Statuses returns every status in column order.
func Statuses() []Status {
	return []Status{StatusWatchlist, StatusWatching, StatusWatched}
}

// Valid reports whether s is one of the three board columns.
func (s Status) Valid() bool {
	switch s {
	case StatusWatchlist, StatusWatching, StatusWatched:
		return true
	}
	return false
}

// ParseStatus converts raw text into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Movie is a single card on the board.
type Movie struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Review string `json:"review"`
	Status Status `json:"status"`
}

// Board is the derived three-column view, already narrowed by the search query.
type Board struct {
	Query     string  `json:"query"`
	Watchlist []Movie `json:"watchlist"`
	Watching  []Movie `json:"watching"`
	Watched   []Movie `json:"watched"`
}

// Column returns the movies shown under the given status.
func (b Board) Column(status Status) []Movie {
	switch status {
	case StatusWatchlist:
		return b.Watchlist
	case StatusWatching:
		return b.Watching
	case StatusWatched:
		return b.Watched
	}
	return nil
}

// UpdateResult describes the outcome of an in-place update.
// Found is false when no movie carries the requested id; the store is left untouched.
type UpdateResult struct {
	Found   bool   `json:"found"`
	Changed bool   `json:"changed"`
	Movie   *Movie `json:"movie,omitempty"`
}
