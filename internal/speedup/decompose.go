package speedup

import (
	"math"
	"time"

	"github.com/abhisek/levelcast/internal/ladder"
	"github.com/abhisek/levelcast/internal/pace"
	"github.com/abhisek/levelcast/internal/record"
)

// IdealPace simulates one level's critical path under the review windows:
// a foundational item from stage 0 to mastery, then a dependent item it
// unlocks from stage 0 to mastery. The level starts at the first window
// after from. Returns days.
func IdealPace(sim ladder.Simulator, from time.Time) float64 {
	start := sim.Windows.Next(from)
	foundationalDone := sim.ToMastery(start, 0)
	dependentDone := sim.ToMastery(foundationalDone, 0)
	return dependentDone.Sub(start).Hours() / 24.0
}

// Result is the decomposition of lost time per level and in total.
type Result struct {
	ActualPace          float64  `json:"actual_pace"`
	IdealPace           float64  `json:"ideal_pace"`
	WindowLostPerLevel  float64  `json:"window_lost_per_level"`
	MistakeLostPerLevel float64  `json:"mistake_lost_per_level"`
	LevelsRemaining     int      `json:"levels_remaining"`
	WindowSaving        float64  `json:"window_saving"`
	MistakeSaving       float64  `json:"mistake_saving"`
	CombinedSaving      float64  `json:"combined_saving"`
	BothOptimizedPace   float64  `json:"both_optimized_pace"`
	Accuracy            Accuracy `json:"accuracy"`
	LeechThreshold      int      `json:"leech_threshold"`
}

// Decompose compares the median pace with idealPace and the answer record.
// idealPace is in days; when tuning.IdealPaceDays is positive it wins.
func Decompose(stats *pace.Stats, outcomes []record.OutcomeCounters, idealPace float64, currentLevel, ceiling int, tuning Tuning) Result {
	if tuning.IdealPaceDays > 0 {
		idealPace = tuning.IdealPaceDays
	}

	acc := Tally(outcomes, tuning.LeechThreshold)
	remaining := pace.LevelsRemaining(currentLevel, ceiling)

	res := Result{
		ActualPace:      stats.Median,
		IdealPace:       idealPace,
		LevelsRemaining: remaining,
		Accuracy:        acc,
		LeechThreshold:  tuning.LeechThreshold,
	}

	res.WindowLostPerLevel = math.Max(0, stats.Median-idealPace)

	if levels := stats.CompletedLevels(); levels > 0 && tuning.MistakeCostHours > 0 {
		lostDays := float64(acc.TotalIncorrect) * tuning.MistakeCostHours / 24.0
		res.MistakeLostPerLevel = lostDays / float64(levels)
	}

	hi := math.Max(res.WindowLostPerLevel, res.MistakeLostPerLevel)
	lo := math.Min(res.WindowLostPerLevel, res.MistakeLostPerLevel)
	perLevel := hi + lo*tuning.BlendFactor

	res.WindowSaving = float64(remaining) * res.WindowLostPerLevel
	res.MistakeSaving = float64(remaining) * res.MistakeLostPerLevel
	res.CombinedSaving = float64(remaining) * perLevel
	floor := math.Min(idealPace, stats.Median)
	res.BothOptimizedPace = math.Max(floor, stats.Median-perLevel)
	return res
}
