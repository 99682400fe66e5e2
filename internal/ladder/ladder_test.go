package ladder

import (
	"errors"
	"testing"
	"time"
)

func day(d, hour int) time.Time {
	return time.Date(2025, 3, d, hour, 0, 0, 0, time.UTC)
}

func testSchedule() WindowSchedule {
	return MustWindowSchedule([]int{9, 18}, time.UTC)
}

func TestIntervals_Values(t *testing.T) {
	expected := []time.Duration{4 * time.Hour, 8 * time.Hour, 23 * time.Hour, 47 * time.Hour}
	if len(Intervals) != len(expected) {
		t.Fatalf("expected %d intervals, got %d", len(expected), len(Intervals))
	}
	for i, v := range expected {
		if Intervals[i] != v {
			t.Errorf("Intervals[%d] = %v, want %v", i, Intervals[i], v)
		}
	}
	if MasteryStage != len(Intervals) {
		t.Errorf("MasteryStage = %d, want %d", MasteryStage, len(Intervals))
	}
}

func TestTotalWait(t *testing.T) {
	if got := TotalWait(); got != 82*time.Hour {
		t.Errorf("TotalWait() = %v, want 82h", got)
	}
	if got := AverageIntervalHours(); got != 20.5 {
		t.Errorf("AverageIntervalHours() = %f, want 20.5", got)
	}
}

func TestIntervalFor_Clamps(t *testing.T) {
	if IntervalFor(-1) != 4*time.Hour {
		t.Error("negative stage should clamp to stage 0")
	}
	if IntervalFor(10) != 47*time.Hour {
		t.Error("stage beyond table should clamp to last interval")
	}
}

func TestNewWindowSchedule_Errors(t *testing.T) {
	if _, err := NewWindowSchedule(nil, time.UTC); !errors.Is(err, ErrNoWindows) {
		t.Errorf("expected ErrNoWindows, got %v", err)
	}
	if _, err := NewWindowSchedule([]int{9, 24}, time.UTC); !errors.Is(err, ErrInvalidHour) {
		t.Errorf("expected ErrInvalidHour, got %v", err)
	}
}

func TestNewWindowSchedule_SortsAndDedupes(t *testing.T) {
	ws := MustWindowSchedule([]int{18, 9, 18}, nil)
	hours := ws.Hours()
	if len(hours) != 2 || hours[0] != 9 || hours[1] != 18 {
		t.Errorf("Hours() = %v, want [9 18]", hours)
	}
	if ws.Location() != time.UTC {
		t.Errorf("nil location should default to UTC")
	}
}

func TestNext_SameDayLaterWindow(t *testing.T) {
	got := testSchedule().Next(day(1, 10))
	if !got.Equal(day(1, 18)) {
		t.Errorf("Next(day1 10:00) = %v, want day1 18:00", got)
	}
}

func TestNext_RollsToNextDay(t *testing.T) {
	got := testSchedule().Next(day(1, 19))
	if !got.Equal(day(2, 9)) {
		t.Errorf("Next(day1 19:00) = %v, want day2 09:00", got)
	}
}

func TestNext_StrictlyAfterWindow(t *testing.T) {
	got := testSchedule().Next(day(1, 9))
	if !got.Equal(day(1, 18)) {
		t.Errorf("Next(day1 09:00) = %v, want day1 18:00 (never the same window)", got)
	}
}

func TestNext_MonotonicAndOnWindow(t *testing.T) {
	ws := testSchedule()
	start := day(1, 0)
	for m := 0; m < 3*24*60; m += 17 {
		in := start.Add(time.Duration(m) * time.Minute)
		out := ws.Next(in)
		if !out.After(in) {
			t.Fatalf("Next(%v) = %v, not strictly later", in, out)
		}
		if !ws.IsWindow(out) {
			t.Fatalf("Next(%v) = %v, not on a window", in, out)
		}
	}
}

func TestNext_ChainedLandsOnSubsequentWindow(t *testing.T) {
	ws := testSchedule()
	first := ws.Next(day(1, 7))
	second := ws.Next(first)
	if !first.Equal(day(1, 9)) {
		t.Fatalf("first = %v, want day1 09:00", first)
	}
	if !second.Equal(day(1, 18)) {
		t.Errorf("second = %v, want day1 18:00", second)
	}
}

func TestNext_HonoursLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	ws := MustWindowSchedule([]int{9}, tokyo)
	// 00:30 UTC is 09:30 JST, so the next 09:00 JST is the following day.
	got := ws.Next(time.Date(2025, 3, 1, 0, 30, 0, 0, time.UTC))
	want := time.Date(2025, 3, 2, 9, 0, 0, 0, tokyo)
	if !got.Equal(want) {
		t.Errorf("Next = %v, want %v", got, want)
	}
}

func TestNext_EmptyScheduleFallsBack(t *testing.T) {
	var ws WindowSchedule
	in := day(1, 10)
	if got := ws.Next(in); !got.Equal(in) {
		t.Errorf("empty schedule Next = %v, want input unchanged", got)
	}
}

func TestToMastery_FourSnapsFromStageZero(t *testing.T) {
	sim := NewSimulator(testSchedule())
	from := day(1, 9)

	steps := sim.Trace(from, 0)
	if len(steps) != MasteryStage {
		t.Fatalf("expected %d window snaps, got %d", MasteryStage, len(steps))
	}

	// 09:00 +4h -> 13:00 -> 18:00; +8h -> 02:00 -> 09:00 d2;
	// +23h -> 08:00 d3 -> 09:00 d3; +47h -> 08:00 d5 -> 09:00 d5.
	want := []time.Time{day(1, 18), day(2, 9), day(3, 9), day(5, 9)}
	for i, s := range steps {
		if !s.ReviewedAt.Equal(want[i]) {
			t.Errorf("step %d reviewed at %v, want %v", i, s.ReviewedAt, want[i])
		}
		if s.Stage != i {
			t.Errorf("step %d stage = %d", i, s.Stage)
		}
	}

	got := sim.ToMastery(from, 0)
	if !got.Equal(day(5, 9)) {
		t.Errorf("ToMastery = %v, want day5 09:00", got)
	}
	if !got.After(from.Add(TotalWait())) {
		t.Errorf("ToMastery = %v should be after the 82h minimum wait", got)
	}
}

func TestToMastery_AlreadyMastered(t *testing.T) {
	sim := NewSimulator(testSchedule())
	from := day(1, 13)
	if got := sim.ToMastery(from, MasteryStage); !got.Equal(from) {
		t.Errorf("ToMastery at mastery stage = %v, want %v", got, from)
	}
	if got := sim.ToMastery(from, MasteryStage+2); !got.Equal(from) {
		t.Errorf("ToMastery beyond mastery stage = %v, want %v", got, from)
	}
}

func TestToMastery_LastStageSingleSnap(t *testing.T) {
	sim := NewSimulator(testSchedule())
	steps := sim.Trace(day(1, 9), MasteryStage-1)
	if len(steps) != 1 {
		t.Fatalf("expected 1 snap, got %d", len(steps))
	}
	// 09:00 d1 + 47h = 08:00 d3 -> 09:00 d3
	if !steps[0].ReviewedAt.Equal(day(3, 9)) {
		t.Errorf("ReviewedAt = %v, want day3 09:00", steps[0].ReviewedAt)
	}
}
