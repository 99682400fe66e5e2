package source

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/levelcast/internal/record"
)

// Snapshot is everything collected from a Source in one pass.
type Snapshot struct {
	CollectedAt  time.Time                `json:"collected_at"`
	CurrentLevel int                      `json:"current_level"`
	Attempts     []record.LevelAttempt    `json:"attempts"`
	Items        []record.ItemState       `json:"items"`
	Outcomes     []record.OutcomeCounters `json:"outcomes"`
}

// Collect reads the current level, then fetches attempts, in-flight items
// and outcome counters concurrently. Items are fetched for the current
// level only; outcomes cover every level reached so far.
func Collect(ctx context.Context, src Source, clock Clock) (*Snapshot, error) {
	if clock == nil {
		clock = SystemClock{}
	}

	level, err := src.CurrentLevel(ctx)
	if err != nil {
		return nil, fmt.Errorf("current level: %w", err)
	}
	if level < 0 {
		return nil, fmt.Errorf("current level %d is negative", level)
	}

	snap := &Snapshot{
		CollectedAt:  clock.Now(),
		CurrentLevel: level,
	}

	levels := make([]int, level)
	for i := range levels {
		levels[i] = i + 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		attempts, err := src.LevelAttempts(gctx)
		if err != nil {
			return fmt.Errorf("level attempts: %w", err)
		}
		snap.Attempts = attempts
		return nil
	})
	g.Go(func() error {
		items, err := src.ReviewItems(gctx, []int{level})
		if err != nil {
			return fmt.Errorf("review items: %w", err)
		}
		snap.Items = items
		return nil
	})
	g.Go(func() error {
		outcomes, err := src.ReviewOutcomes(gctx, levels)
		if err != nil {
			return fmt.Errorf("review outcomes: %w", err)
		}
		snap.Outcomes = outcomes
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Static serves a Snapshot as a Source. Filters by level like a live source.
type Static struct {
	Snap *Snapshot
}

func (s Static) CurrentLevel(context.Context) (int, error) {
	return s.Snap.CurrentLevel, nil
}

func (s Static) LevelAttempts(context.Context) ([]record.LevelAttempt, error) {
	return s.Snap.Attempts, nil
}

func (s Static) ReviewItems(_ context.Context, levels []int) ([]record.ItemState, error) {
	want := levelSet(levels)
	var out []record.ItemState
	for _, it := range s.Snap.Items {
		if want[it.Level] {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s Static) ReviewOutcomes(context.Context, []int) ([]record.OutcomeCounters, error) {
	return s.Snap.Outcomes, nil
}

func levelSet(levels []int) map[int]bool {
	m := make(map[int]bool, len(levels))
	for _, l := range levels {
		m[l] = true
	}
	return m
}
