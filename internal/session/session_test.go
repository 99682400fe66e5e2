package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/levelcast/internal/demo"
	"github.com/abhisek/levelcast/internal/history"
	"github.com/abhisek/levelcast/internal/ladder"
	"github.com/abhisek/levelcast/internal/pace"
	"github.com/abhisek/levelcast/internal/record"
	"github.com/abhisek/levelcast/internal/source"
	"github.com/abhisek/levelcast/internal/speedup"
)

var now = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		Windows:   ladder.MustWindowSchedule([]int{9, 18}, time.UTC),
		Segmenter: history.LatestPerLevelPolicy{},
		Ceiling:   60,
		Tuning:    speedup.DefaultTuning(),
	}
}

func buildDemo(t *testing.T, seed uint64) *Report {
	t.Helper()
	svc := NewService(demo.New(seed, now), source.FixedClock{T: now}, testOptions(), nil)
	r, err := svc.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return r
}

func TestBuild_FullReport(t *testing.T) {
	r := buildDemo(t, 3)

	if r.InsufficientHistory {
		t.Fatal("demo learner should have enough history")
	}
	if len(r.Projections) != len(pace.Scenarios()) {
		t.Errorf("Projections = %d, want %d", len(r.Projections), len(pace.Scenarios()))
	}
	if r.Speedup == nil {
		t.Fatal("expected a speedup decomposition")
	}
	if r.Speedup.IdealPace != r.IdealPace {
		t.Errorf("decomposition ideal %f differs from report ideal %f", r.Speedup.IdealPace, r.IdealPace)
	}
	if !r.LevelUp.LevelUpAt.After(now) {
		t.Errorf("LevelUpAt = %v, want after %v", r.LevelUp.LevelUpAt, now)
	}
	if r.Policy != history.PolicyLatestPerLevel {
		t.Errorf("Policy = %q", r.Policy)
	}
}

func TestBuild_ProjectionsOrdered(t *testing.T) {
	r := buildDemo(t, 8)
	fast, _ := r.Projection(pace.ScenarioFast)
	median, _ := r.Projection(pace.ScenarioMedian)
	slow, _ := r.Projection(pace.ScenarioSlow)
	if fast.FinishAt.After(median.FinishAt) || median.FinishAt.After(slow.FinishAt) {
		t.Errorf("expected fast <= median <= slow, got %v %v %v", fast.FinishAt, median.FinishAt, slow.FinishAt)
	}
}

func TestBuild_InsufficientHistoryIsNotAnError(t *testing.T) {
	passed := now.AddDate(0, 0, -3)
	snap := &source.Snapshot{
		CollectedAt:  now,
		CurrentLevel: 2,
		Attempts: []record.LevelAttempt{
			{Level: 1, StartedAt: now.AddDate(0, 0, -10), PassedAt: &passed},
			{Level: 2, StartedAt: passed},
		},
	}
	svc := NewService(source.Static{Snap: snap}, source.FixedClock{T: now}, testOptions(), nil)

	r, err := svc.Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.InsufficientHistory {
		t.Error("expected InsufficientHistory")
	}
	if r.Stats != nil || r.Speedup != nil || r.Projections != nil {
		t.Error("pace-derived sections should be empty")
	}
	if r.LevelUp.Gate != "imminent" {
		t.Errorf("Gate = %q, want imminent with no items", r.LevelUp.Gate)
	}
	if _, err := r.WhatIf(10, pace.ScenarioMedian); !errors.Is(err, pace.ErrInsufficientHistory) {
		t.Errorf("WhatIf err = %v, want ErrInsufficientHistory", err)
	}
}

type failingSource struct{ source.Static }

func (failingSource) CurrentLevel(context.Context) (int, error) {
	return 0, &source.ErrUnauthorized{}
}

func TestBuild_SourceErrorsPropagate(t *testing.T) {
	svc := NewService(failingSource{}, nil, testOptions(), nil)
	_, err := svc.Build(context.Background())

	var unauth *source.ErrUnauthorized
	if !errors.As(err, &unauth) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestWhatIf(t *testing.T) {
	r := buildDemo(t, 4)

	p, err := r.WhatIf(r.CurrentLevel+5, pace.ScenarioMedian)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.LevelsLeft != 5 {
		t.Errorf("LevelsLeft = %d, want 5", p.LevelsLeft)
	}
	want := r.GeneratedAt.Add(time.Duration(5 * r.Stats.Median * 24 * float64(time.Hour)))
	if !p.FinishAt.Equal(want) {
		t.Errorf("FinishAt = %v, want %v", p.FinishAt, want)
	}

	past, err := r.WhatIf(1, pace.ScenarioMedian)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !past.FinishAt.Equal(r.GeneratedAt) {
		t.Errorf("a reached target should finish now, got %v", past.FinishAt)
	}

	if _, err := r.WhatIf(61, pace.ScenarioMedian); !errors.Is(err, ErrTargetOutOfRange) {
		t.Errorf("err = %v, want ErrTargetOutOfRange", err)
	}
}

func TestWhatIf_DecadeLongPace(t *testing.T) {
	r := &Report{
		GeneratedAt:  now,
		CurrentLevel: 2,
		Ceiling:      60,
		Stats:        pace.FromDurations([]float64{6, 3650}, nil),
	}

	var prev time.Time
	for _, sc := range pace.Scenarios() {
		p, err := r.WhatIf(60, sc)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", sc, err)
		}
		if p.DaysToGo <= 0 {
			t.Errorf("%s: DaysToGo = %f, want positive", sc, p.DaysToGo)
		}
		if !p.FinishAt.After(now) {
			t.Errorf("%s: FinishAt = %v, want after %v", sc, p.FinishAt, now)
		}
		if p.FinishAt.Before(prev) {
			t.Errorf("%s: FinishAt %v earlier than the faster scenario's %v", sc, p.FinishAt, prev)
		}
		prev = p.FinishAt
	}
}

func TestSession_SelectCycleReset(t *testing.T) {
	s := New(now)
	if s.ID == "" {
		t.Fatal("expected a session id")
	}
	if s.Scenario != pace.ScenarioMedian {
		t.Errorf("Scenario = %q, want median", s.Scenario)
	}

	s.Select(pace.ScenarioSlow)
	if s.Scenario != pace.ScenarioSlow {
		t.Errorf("Scenario = %q, want slow", s.Scenario)
	}

	seen := map[pace.Scenario]bool{}
	for range pace.Scenarios() {
		seen[s.Cycle()] = true
	}
	if len(seen) != len(pace.Scenarios()) {
		t.Errorf("Cycle visited %d scenarios, want %d", len(seen), len(pace.Scenarios()))
	}

	s.Target = 30
	s.Reset()
	if s.Scenario != pace.ScenarioMedian || s.Target != 0 {
		t.Errorf("Reset left %q / %d", s.Scenario, s.Target)
	}
}

func TestSession_Current(t *testing.T) {
	s := New(now)
	if _, err := s.Current(); !errors.Is(err, pace.ErrInsufficientHistory) {
		t.Errorf("no report: err = %v", err)
	}

	s.Attach(buildDemo(t, 6))
	ceiling, err := s.Current()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := s.Report.Projection(pace.ScenarioMedian)
	if !ceiling.FinishAt.Equal(want.FinishAt) {
		t.Errorf("default target should match the ceiling projection")
	}

	if err := s.SetTarget(99); !errors.Is(err, ErrTargetOutOfRange) {
		t.Errorf("SetTarget(99) err = %v", err)
	}
	if err := s.SetTarget(s.Report.CurrentLevel + 1); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	next, err := s.Current()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.LevelsLeft != 1 {
		t.Errorf("LevelsLeft = %d, want 1", next.LevelsLeft)
	}
}

func TestSessionIDsUnique(t *testing.T) {
	if New(now).ID == New(now).ID {
		t.Error("session ids should differ")
	}
}
