// Package history isolates the learner's current progression run from a
// level-attempt history that may contain resets and restarts.
package history

import (
	"fmt"
	"sort"

	"github.com/abhisek/levelcast/internal/record"
)

// Segmenter selects the attempts that belong to the current run. The result
// is level-ordered and holds at most one attempt per level. Implementations
// never mutate the input slice.
type Segmenter interface {
	Segment(attempts []record.LevelAttempt) []record.LevelAttempt
	Name() string
}

const (
	PolicyLatestPerLevel = "latest-per-level"
	PolicyStartDate      = "start-date"
)

// DefaultEarlyLevelThreshold is the highest level at which a repeated or
// lower level is treated as the start of a new run.
const DefaultEarlyLevelThreshold = 5

// PolicyByName returns the segmenter registered under name. An empty name
// selects the default latest-per-level policy.
func PolicyByName(name string) (Segmenter, error) {
	switch name {
	case "", PolicyLatestPerLevel:
		return LatestPerLevelPolicy{}, nil
	case PolicyStartDate:
		return StartDatePolicy{EarlyLevelThreshold: DefaultEarlyLevelThreshold}, nil
	default:
		return nil, fmt.Errorf("unknown run policy %q (want %q or %q)", name, PolicyLatestPerLevel, PolicyStartDate)
	}
}

// LatestPerLevelPolicy keeps the most recently started attempt for each level.
// Every level the learner ever reached is part of the run.
type LatestPerLevelPolicy struct{}

func (LatestPerLevelPolicy) Name() string { return PolicyLatestPerLevel }

func (LatestPerLevelPolicy) Segment(attempts []record.LevelAttempt) []record.LevelAttempt {
	return latestPerLevel(attempts)
}

// StartDatePolicy walks attempts chronologically and marks a new run
// whenever an attempt's level is at or below its predecessor's and within
// EarlyLevelThreshold. The run is everything started at or after the latest
// marker, deduplicated to the latest attempt per level.
type StartDatePolicy struct {
	EarlyLevelThreshold int
}

func (StartDatePolicy) Name() string { return PolicyStartDate }

func (p StartDatePolicy) Segment(attempts []record.LevelAttempt) []record.LevelAttempt {
	if len(attempts) == 0 {
		return nil
	}
	threshold := p.EarlyLevelThreshold
	if threshold <= 0 {
		threshold = DefaultEarlyLevelThreshold
	}

	chrono := make([]record.LevelAttempt, len(attempts))
	copy(chrono, attempts)
	sort.SliceStable(chrono, func(i, j int) bool {
		return chrono[i].StartedAt.Before(chrono[j].StartedAt)
	})

	runStart := chrono[0].StartedAt
	for i := 1; i < len(chrono); i++ {
		cur, prev := chrono[i], chrono[i-1]
		if cur.Level <= prev.Level && cur.Level <= threshold {
			runStart = cur.StartedAt
		}
	}

	var run []record.LevelAttempt
	for _, a := range chrono {
		if !a.StartedAt.Before(runStart) {
			run = append(run, a)
		}
	}
	return latestPerLevel(run)
}

// latestPerLevel groups by level, keeps the latest started_at in each group
// and returns the survivors in ascending level order.
func latestPerLevel(attempts []record.LevelAttempt) []record.LevelAttempt {
	if len(attempts) == 0 {
		return nil
	}
	byLevel := make(map[int]record.LevelAttempt, len(attempts))
	for _, a := range attempts {
		existing, ok := byLevel[a.Level]
		if !ok || a.StartedAt.After(existing.StartedAt) {
			byLevel[a.Level] = a
		}
	}

	out := make([]record.LevelAttempt, 0, len(byLevel))
	for _, a := range byLevel {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}
