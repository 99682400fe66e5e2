package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/levelcast/internal/history"
	"github.com/abhisek/levelcast/internal/ladder"
	"github.com/abhisek/levelcast/internal/levelup"
	"github.com/abhisek/levelcast/internal/logger"
	"github.com/abhisek/levelcast/internal/pace"
	"github.com/abhisek/levelcast/internal/source"
	"github.com/abhisek/levelcast/internal/speedup"
)

// Options are the tunables a Service computes with.
type Options struct {
	Windows   ladder.WindowSchedule
	Segmenter history.Segmenter
	Ceiling   int
	Tuning    speedup.Tuning
}

// DefaultOptions returns the standard windows, policy, ceiling and tuning.
func DefaultOptions() Options {
	return Options{
		Windows:   ladder.MustWindowSchedule(ladder.DefaultWindows, time.Local),
		Segmenter: history.LatestPerLevelPolicy{},
		Ceiling:   pace.Ceiling,
		Tuning:    speedup.DefaultTuning(),
	}
}

// Report is every forecast for one collected snapshot.
type Report struct {
	GeneratedAt  time.Time `json:"generated_at"`
	CurrentLevel int       `json:"current_level"`
	Ceiling      int       `json:"ceiling"`
	Policy       string    `json:"policy"`

	// Stats, Projections and Speedup are empty when InsufficientHistory.
	InsufficientHistory bool              `json:"insufficient_history"`
	Stats               *pace.Stats       `json:"stats,omitempty"`
	Projections         []pace.Projection `json:"projections,omitempty"`
	LevelUp             levelup.Result    `json:"level_up"`
	IdealPace           float64           `json:"ideal_pace"`
	Speedup             *speedup.Result   `json:"speedup,omitempty"`
	Snapshot            *source.Snapshot  `json:"-"`
	Location            *time.Location    `json:"-"`
}

// ErrTargetOutOfRange is returned for a what-if target outside 1..ceiling.
var ErrTargetOutOfRange = errors.New("session: target level out of range")

// Projection returns the projection for one scenario.
func (r *Report) Projection(sc pace.Scenario) (pace.Projection, bool) {
	for _, p := range r.Projections {
		if p.Scenario == sc {
			return p, true
		}
	}
	return pace.Projection{}, false
}

// WhatIf projects reaching target (rather than the ceiling) at the pace of sc.
func (r *Report) WhatIf(target int, sc pace.Scenario) (pace.Projection, error) {
	if target < 1 || target > r.Ceiling {
		return pace.Projection{}, fmt.Errorf("%w: %d (want 1..%d)", ErrTargetOutOfRange, target, r.Ceiling)
	}
	if r.Stats == nil {
		return pace.Projection{}, pace.ErrInsufficientHistory
	}
	levels := pace.LevelsRemaining(r.CurrentLevel, target)
	p := r.Stats.Pace(sc)
	finish := pace.Forecast(p, levels, r.GeneratedAt)
	return pace.Projection{
		Scenario:   sc,
		PaceDays:   p,
		FinishAt:   finish,
		DaysToGo:   pace.SpanDays(p, levels),
		LevelsLeft: levels,
	}, nil
}

// Service collects records from a Source and turns them into a Report.
type Service struct {
	Source  source.Source
	Clock   source.Clock
	Options Options
	Log     *logger.Logger
}

// NewService fills nil collaborators with defaults.
func NewService(src source.Source, clock source.Clock, opts Options, log *logger.Logger) *Service {
	if clock == nil {
		clock = source.SystemClock{}
	}
	if opts.Segmenter == nil {
		opts.Segmenter = history.LatestPerLevelPolicy{}
	}
	if opts.Ceiling <= 0 {
		opts.Ceiling = pace.Ceiling
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{Source: src, Clock: clock, Options: opts, Log: log}
}

// Build collects a snapshot and computes every forecast from it. Source
// errors come back wrapped but unchanged in kind; too little history is
// reported on the Report, not as an error.
func (s *Service) Build(ctx context.Context) (*Report, error) {
	snap, err := source.Collect(ctx, s.Source, s.Clock)
	if err != nil {
		return nil, fmt.Errorf("collect records: %w", err)
	}
	return s.FromSnapshot(snap)
}

// FromSnapshot computes a Report from already collected records.
func (s *Service) FromSnapshot(snap *source.Snapshot) (*Report, error) {
	now := snap.CollectedAt
	sim := ladder.NewSimulator(s.Options.Windows)

	r := &Report{
		GeneratedAt:  now,
		CurrentLevel: snap.CurrentLevel,
		Ceiling:      s.Options.Ceiling,
		Policy:       s.Options.Segmenter.Name(),
		LevelUp:      levelup.Forecast(snap.Items, now, sim),
		IdealPace:    speedup.IdealPace(sim, now),
		Snapshot:     snap,
		Location:     s.Options.Windows.Location(),
	}

	stats, err := pace.Compute(snap.Attempts, snap.CurrentLevel, s.Options.Segmenter)
	switch {
	case errors.Is(err, pace.ErrInsufficientHistory):
		r.InsufficientHistory = true
		s.Log.Info("not enough completed levels for pace statistics", "level", snap.CurrentLevel)
		return r, nil
	case err != nil:
		return nil, fmt.Errorf("pace statistics: %w", err)
	}

	remaining := pace.LevelsRemaining(snap.CurrentLevel, s.Options.Ceiling)
	decomp := speedup.Decompose(stats, snap.Outcomes, r.IdealPace, snap.CurrentLevel, s.Options.Ceiling, s.Options.Tuning)

	r.Stats = stats
	r.Projections = pace.Project(stats, remaining, now)
	r.Speedup = &decomp

	s.Log.Debug("report built",
		"level", snap.CurrentLevel,
		"policy", r.Policy,
		"completed", stats.CompletedLevels(),
		"blocking", r.LevelUp.BlockingCount,
	)
	return r, nil
}
