// Package source defines the boundary to wherever learner records come
// from: the remote API, the local cache, or the synthetic generator.
package source

import (
	"context"
	"time"

	"github.com/abhisek/levelcast/internal/record"
)

// Source provides the records the forecasts are computed from.
type Source interface {
	CurrentLevel(ctx context.Context) (int, error)
	LevelAttempts(ctx context.Context) ([]record.LevelAttempt, error)
	ReviewItems(ctx context.Context, levels []int) ([]record.ItemState, error)
	ReviewOutcomes(ctx context.Context, levels []int) ([]record.OutcomeCounters, error)
}

// Clock returns the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
