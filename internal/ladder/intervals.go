// Package ladder models the fixed-interval mastery ladder and the daily review
// windows that items climb it through.
package ladder

import "time"

// Intervals defines the wait before an item at each stage becomes eligible
// for its next review. Stage 0 = first review after the item is started.
var Intervals = []time.Duration{
	4 * time.Hour,
	8 * time.Hour,
	23 * time.Hour,
	47 * time.Hour,
}

// MasteryStage is the stage index at which an item counts as mastered.
// Stages 0 through MasteryStage-1 are pre-mastery.
const MasteryStage = 4

// TotalWait returns the minimum time an item needs to climb from stage 0 to
// mastery, ignoring review windows.
func TotalWait() time.Duration {
	var total time.Duration
	for _, d := range Intervals {
		total += d
	}
	return total
}

// AverageIntervalHours returns the mean stage interval in hours.
func AverageIntervalHours() float64 {
	return TotalWait().Hours() / float64(len(Intervals))
}

// IntervalFor returns the wait for the given stage, clamped to the table.
func IntervalFor(stage int) time.Duration {
	if stage < 0 {
		stage = 0
	}
	if stage >= len(Intervals) {
		return Intervals[len(Intervals)-1]
	}
	return Intervals[stage]
}
