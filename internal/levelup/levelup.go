// Package levelup estimates when the learner's current level will be passed
// by simulating every in-flight gating item up the ladder.
package levelup

import (
	"sort"
	"time"

	"github.com/abhisek/levelcast/internal/ladder"
	"github.com/abhisek/levelcast/internal/record"
)

// DependentPassRatio is the share of dependent items that must reach mastery
// before the level is passed.
const DependentPassRatio = 0.9

// dependentSlack is 1 - DependentPassRatio, kept exact for the index math.
const dependentSlack = 0.1

// Gate names which rule decided the level-up instant.
type Gate string

const (
	GateImminent     Gate = "imminent"     // nothing blocking
	GateDependent    Gate = "dependent"    // 90% of dependent items
	GateFoundational Gate = "foundational" // last foundational item
)

// ItemForecast is one blocking item's simulated mastery instant.
type ItemForecast struct {
	ID         int             `json:"id"`
	Type       record.ItemType `json:"type"`
	Stage      int             `json:"stage"`
	StartFrom  time.Time       `json:"start_from"`
	MasteredAt time.Time       `json:"mastered_at"`
}

// Result is the near-term level-up estimate.
type Result struct {
	LevelUpAt      time.Time                `json:"level_up_at"`
	BlockingCount  int                      `json:"blocking_count"`
	Gate           Gate                     `json:"gate"`
	Critical       *ItemForecast            `json:"critical,omitempty"`
	StageBreakdown [ladder.MasteryStage]int `json:"stage_breakdown"`
	Items          []ItemForecast           `json:"items"`
}

// Blocking reports whether an item still gates the level-up.
func Blocking(it record.ItemState) bool {
	return it.MasteredAt == nil && it.StartedAt != nil && it.Stage < ladder.MasteryStage
}

// Forecast simulates every blocking item from max(now, available_at) and
// applies the gating rule.
func Forecast(items []record.ItemState, now time.Time, sim ladder.Simulator) Result {
	var res Result
	var foundational, dependent []ItemForecast

	for _, it := range items {
		if !Blocking(it) {
			continue
		}
		start := now
		if it.AvailableAt != nil && it.AvailableAt.After(now) {
			start = *it.AvailableAt
		}
		stage := it.Stage
		if stage < 0 {
			stage = 0
		}

		f := ItemForecast{
			ID:         it.ID,
			Type:       it.Type,
			Stage:      stage,
			StartFrom:  start,
			MasteredAt: sim.ToMastery(start, stage),
		}
		res.Items = append(res.Items, f)
		res.StageBreakdown[stage]++

		switch it.Type {
		case record.Dependent:
			dependent = append(dependent, f)
		case record.Foundational:
			foundational = append(foundational, f)
		}
	}

	res.BlockingCount = len(res.Items)
	if res.BlockingCount == 0 {
		res.LevelUpAt = sim.Windows.Next(now)
		res.Gate = GateImminent
		return res
	}

	sortByMastery(res.Items)
	critical := res.Items[len(res.Items)-1]
	res.Critical = &critical

	switch {
	case len(dependent) > 0:
		sortByMastery(dependent)
		res.LevelUpAt = dependent[PassIndex(len(dependent))].MasteredAt
		res.Gate = GateDependent
	case len(foundational) > 0:
		sortByMastery(foundational)
		res.LevelUpAt = foundational[len(foundational)-1].MasteredAt
		res.Gate = GateFoundational
	default:
		// Only non-gating items are in flight.
		res.LevelUpAt = critical.MasteredAt
		res.Gate = GateImminent
	}
	return res
}

// PassIndex returns the position of the item whose mastery completes the
// DependentPassRatio share among n ascending mastery instants.
func PassIndex(n int) int {
	idx := n - 1 - int(float64(n)*dependentSlack)
	if idx < 0 {
		return 0
	}
	return idx
}

func sortByMastery(fs []ItemForecast) {
	sort.SliceStable(fs, func(i, j int) bool {
		return fs[i].MasteredAt.Before(fs[j].MasteredAt)
	})
}
