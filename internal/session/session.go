// Package session holds the state of one interactive forecasting session
// and the service that builds its reports.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/levelcast/internal/pace"
)

// Session is what the learner has selected while browsing a Report.
type Session struct {
	ID        string
	StartedAt time.Time
	Scenario  pace.Scenario

	// Target is the what-if level; 0 means the ceiling.
	Target int

	Report *Report
}

// New starts a session on the median scenario.
func New(now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: now,
		Scenario:  pace.ScenarioMedian,
	}
}

// Attach sets the report the session browses.
func (s *Session) Attach(r *Report) {
	s.Report = r
}

// Select switches the scenario.
func (s *Session) Select(sc pace.Scenario) {
	s.Scenario = sc
}

// Cycle moves to the next scenario and returns it.
func (s *Session) Cycle() pace.Scenario {
	s.Scenario = s.Scenario.Next()
	return s.Scenario
}

// SetTarget sets the what-if level after checking it against the report.
func (s *Session) SetTarget(level int) error {
	if s.Report != nil {
		if _, err := s.Report.WhatIf(level, s.Scenario); err != nil && !errors.Is(err, pace.ErrInsufficientHistory) {
			return err
		}
	}
	s.Target = level
	return nil
}

// Reset returns to the median scenario and the ceiling target. The report
// and ideal pace are kept.
func (s *Session) Reset() {
	s.Scenario = pace.ScenarioMedian
	s.Target = 0
}

// Current returns the projection for the selected scenario and target.
func (s *Session) Current() (pace.Projection, error) {
	if s.Report == nil || s.Report.Stats == nil {
		return pace.Projection{}, pace.ErrInsufficientHistory
	}
	target := s.Target
	if target == 0 {
		target = s.Report.Ceiling
	}
	return s.Report.WhatIf(target, s.Scenario)
}
