// Package seed supplies the initial movie collection.
//
// Both loaders simulate a network fetch with a fixed latency and validate
// every record before handing the list to the store. A single bad record
// fails the whole seed.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/reelboard/internal/codec"
	"github.com/rpggio/reelboard/internal/domain/movie"
)

// DefaultDelay is the simulated fetch latency.
const DefaultDelay = 500 * time.Millisecond

// ErrInvalidSeed indicates seed data that does not satisfy the movie invariants.
var ErrInvalidSeed = errors.New("invalid seed data")

//go:embed movies.json
var fixtureData []byte

// Fixture serves the bundled seed list.
type Fixture struct {
	Delay time.Duration
}

// NewFixture creates a fixture loader with the given latency.
func NewFixture(delay time.Duration) *Fixture {
	return &Fixture{Delay: delay}
}

// FetchSeed returns the bundled movies after the configured delay.
func (f *Fixture) FetchSeed(ctx context.Context) ([]movie.Movie, error) {
	if err := wait(ctx, f.Delay); err != nil {
		return nil, err
	}
	decoded, err := codec.DecodeRecords(fixtureData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	return checked(decoded)
}

func checked(decoded codec.Decoded) ([]movie.Movie, error) {
	if err := decoded.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	return decoded.Movies, nil
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
