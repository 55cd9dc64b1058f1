package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/reelboard/internal/repository"
)

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// mapWriteError attaches repository.ErrLocked to busy errors so callers can
// tell lock contention apart from other failures.
func mapWriteError(op string, err error) error {
	if isBusy(err) {
		return fmt.Errorf("%s: %w: %v", op, repository.ErrLocked, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
