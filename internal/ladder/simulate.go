package ladder

import "time"

// Step records one stage advance during a simulated climb.
type Step struct {
	Stage      int       // stage the item was at before the review
	EligibleAt time.Time // last review + stage interval
	ReviewedAt time.Time // the window the review actually happened in
}

// Simulator climbs the ladder under a fixed review-window schedule.
type Simulator struct {
	Windows WindowSchedule
}

// NewSimulator returns a Simulator that reviews only at the given windows.
func NewSimulator(windows WindowSchedule) Simulator {
	return Simulator{Windows: windows}
}

// ToMastery returns the instant an item at stage, last reviewed (or made
// available) at from, reaches MasteryStage.
func (s Simulator) ToMastery(from time.Time, stage int) time.Time {
	steps := s.Trace(from, stage)
	if len(steps) == 0 {
		return from
	}
	return steps[len(steps)-1].ReviewedAt
}

// Trace returns every window snap on the way to mastery. An item already at
// or beyond MasteryStage yields no steps.
func (s Simulator) Trace(from time.Time, stage int) []Step {
	if stage < 0 {
		stage = 0
	}
	if stage >= MasteryStage {
		return nil
	}

	steps := make([]Step, 0, MasteryStage-stage)
	last := from
	for stage < MasteryStage {
		eligible := last.Add(Intervals[stage])
		last = s.Windows.Next(eligible)
		steps = append(steps, Step{Stage: stage, EligibleAt: eligible, ReviewedAt: last})
		stage++
	}
	return steps
}
