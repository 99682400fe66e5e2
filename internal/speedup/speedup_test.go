package speedup

import (
	"math"
	"testing"
	"time"

	"github.com/abhisek/levelcast/internal/ladder"
	"github.com/abhisek/levelcast/internal/pace"
	"github.com/abhisek/levelcast/internal/record"
)

const epsilon = 0.0001

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func statsWith(durations ...float64) *pace.Stats {
	completed := make([]record.LevelAttempt, len(durations))
	for i := range durations {
		completed[i] = record.LevelAttempt{Level: i + 1}
	}
	return pace.FromDurations(durations, completed)
}

func TestIdealPace_Simulated(t *testing.T) {
	sim := ladder.NewSimulator(ladder.MustWindowSchedule([]int{9, 18}, time.UTC))
	from := time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)
	// Level starts 09:00 d1; foundational masters 09:00 d5, dependent 09:00 d9.
	if got := IdealPace(sim, from); !almostEqual(got, 8) {
		t.Errorf("IdealPace = %f, want 8", got)
	}
}

func TestIdealPace_AtLeastTwiceLadderWait(t *testing.T) {
	sim := ladder.NewSimulator(ladder.MustWindowSchedule([]int{7, 12, 21}, time.UTC))
	minDays := 2 * ladder.TotalWait().Hours() / 24
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 24; h++ {
		got := IdealPace(sim, from.Add(time.Duration(h)*time.Hour))
		if got < minDays {
			t.Errorf("IdealPace from hour %d = %f, below minimum %f", h, got, minDays)
		}
	}
}

func TestTally_EmptyIsPerfect(t *testing.T) {
	a := Tally(nil, 4)
	if a.Percent != 100 {
		t.Errorf("Percent = %f, want 100", a.Percent)
	}
	if a.TotalAnswers != 0 || a.Leeches != 0 {
		t.Errorf("unexpected totals: %+v", a)
	}
}

func TestTally_CountsLeeches(t *testing.T) {
	outcomes := []record.OutcomeCounters{
		{ItemID: 1, MeaningCorrect: 10, ReadingCorrect: 10},
		{ItemID: 2, MeaningCorrect: 6, MeaningIncorrect: 2, ReadingCorrect: 6, ReadingIncorrect: 2},
		{ItemID: 3, MeaningCorrect: 4, MeaningIncorrect: 1, ReadingCorrect: 4, ReadingIncorrect: 1},
	}
	a := Tally(outcomes, 4)
	if a.TotalCorrect != 40 || a.TotalIncorrect != 6 {
		t.Errorf("totals = %d/%d, want 40/6", a.TotalCorrect, a.TotalIncorrect)
	}
	if !almostEqual(a.Percent, 40.0/46.0*100) {
		t.Errorf("Percent = %f", a.Percent)
	}
	if a.Leeches != 1 {
		t.Errorf("Leeches = %d, want 1", a.Leeches)
	}
}

func TestLeeches_SortedByIncorrect(t *testing.T) {
	outcomes := []record.OutcomeCounters{
		{ItemID: 1, MeaningIncorrect: 4},
		{ItemID: 2, MeaningIncorrect: 1},
		{ItemID: 3, MeaningIncorrect: 3, ReadingIncorrect: 4},
	}
	got := Leeches(outcomes, 4)
	if len(got) != 2 || got[0].ItemID != 3 || got[1].ItemID != 1 {
		t.Errorf("Leeches = %+v, want items 3 then 1", got)
	}
}

func TestDecompose(t *testing.T) {
	stats := statsWith(10, 12, 12, 14) // median 12
	outcomes := []record.OutcomeCounters{
		{ItemID: 1, MeaningCorrect: 30, MeaningIncorrect: 8, ReadingCorrect: 30, ReadingIncorrect: 8},
	}
	tuning := Tuning{MistakeCostHours: 24, BlendFactor: 0.4, LeechThreshold: 4}

	res := Decompose(stats, outcomes, 8, 10, 60, tuning)

	if !almostEqual(res.WindowLostPerLevel, 4) {
		t.Errorf("WindowLostPerLevel = %f, want 4", res.WindowLostPerLevel)
	}
	// 16 mistakes * 1 day / 4 levels
	if !almostEqual(res.MistakeLostPerLevel, 4) {
		t.Errorf("MistakeLostPerLevel = %f, want 4", res.MistakeLostPerLevel)
	}
	if res.LevelsRemaining != 50 {
		t.Errorf("LevelsRemaining = %d, want 50", res.LevelsRemaining)
	}
	// 50 * (4 + 4*0.4)
	if !almostEqual(res.CombinedSaving, 280) {
		t.Errorf("CombinedSaving = %f, want 280", res.CombinedSaving)
	}
	if !almostEqual(res.WindowSaving, 200) || !almostEqual(res.MistakeSaving, 200) {
		t.Errorf("savings = %f / %f, want 200 / 200", res.WindowSaving, res.MistakeSaving)
	}
	if !almostEqual(res.BothOptimizedPace, 8) {
		t.Errorf("BothOptimizedPace = %f, want clamped to ideal 8", res.BothOptimizedPace)
	}
	if res.Accuracy.Leeches != 1 {
		t.Errorf("Leeches = %d, want 1", res.Accuracy.Leeches)
	}
}

func TestDecompose_FixedIdealOverride(t *testing.T) {
	stats := statsWith(9, 9, 9)
	tuning := DefaultTuning()
	tuning.IdealPaceDays = 7

	res := Decompose(stats, nil, 100, 5, 60, tuning)
	if !almostEqual(res.IdealPace, 7) {
		t.Errorf("IdealPace = %f, want tuned 7", res.IdealPace)
	}
	if !almostEqual(res.WindowLostPerLevel, 2) {
		t.Errorf("WindowLostPerLevel = %f, want 2", res.WindowLostPerLevel)
	}
	if res.MistakeLostPerLevel != 0 {
		t.Errorf("MistakeLostPerLevel = %f, want 0 with no outcomes", res.MistakeLostPerLevel)
	}
	if res.Accuracy.Percent != 100 {
		t.Errorf("Accuracy = %f, want 100", res.Accuracy.Percent)
	}
}

func TestDecompose_NonNegative(t *testing.T) {
	tuning := DefaultTuning()
	paces := [][]float64{{3, 4}, {7, 8, 9}, {20, 30, 40}}
	for _, p := range paces {
		for _, ideal := range []float64{0, 5, 8, 50} {
			res := Decompose(statsWith(p...), []record.OutcomeCounters{{MeaningIncorrect: 3}}, ideal, 59, 60, tuning)
			if res.WindowLostPerLevel < 0 || res.MistakeLostPerLevel < 0 {
				t.Errorf("negative loss for paces %v ideal %f: %+v", p, ideal, res)
			}
			if res.CombinedSaving < 0 {
				t.Errorf("negative combined saving for paces %v ideal %f", p, ideal)
			}
		}
	}
}

func TestDecompose_AtCeiling(t *testing.T) {
	res := Decompose(statsWith(10, 10), nil, 8, 60, 60, DefaultTuning())
	if res.LevelsRemaining != 0 || res.CombinedSaving != 0 {
		t.Errorf("at ceiling expected no remaining savings, got %+v", res)
	}
}

func TestDefaultTuning(t *testing.T) {
	tn := DefaultTuning()
	if tn.BlendFactor != 0.4 {
		t.Errorf("BlendFactor = %f, want 0.4", tn.BlendFactor)
	}
	if tn.LeechThreshold != 4 {
		t.Errorf("LeechThreshold = %d, want 4", tn.LeechThreshold)
	}
	if !almostEqual(tn.MistakeCostHours, 20.5) {
		t.Errorf("MistakeCostHours = %f, want 20.5", tn.MistakeCostHours)
	}
}
