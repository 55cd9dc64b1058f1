package movie

import (
	"fmt"
	"strings"
)

// ValidateAddRequest validates fields required to add a movie.
func ValidateAddRequest(req AddRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrInvalidName
	}
	if req.Status != "" && !req.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// ValidateMovie checks a record coming from outside the store (seed or persisted data).
func ValidateMovie(m Movie) error {
	if m.ID <= 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(m.Name) == "" {
		return ErrInvalidName
	}
	if !m.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// ValidateCollection checks every record and the uniqueness of ids.
func ValidateCollection(movies []Movie) error {
	seen := make(map[int64]struct{}, len(movies))
	for i, m := range movies {
		if err := ValidateMovie(m); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("record %d: %w %d", i, ErrDuplicateID, m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	return nil
}
