package pace

import (
	"fmt"
	"math"
	"time"
)

// Ceiling is the top level of the curriculum.
const Ceiling = 60

// Scenario names one pace figure to project with.
type Scenario string

const (
	ScenarioFast    Scenario = "fast"
	ScenarioMedian  Scenario = "median"
	ScenarioAverage Scenario = "average"
	ScenarioRecent  Scenario = "recent"
	ScenarioSlow    Scenario = "slow"
)

var scenarioOrder = []Scenario{ScenarioFast, ScenarioMedian, ScenarioAverage, ScenarioRecent, ScenarioSlow}

// Scenarios returns every scenario, fastest first.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarioOrder))
	copy(out, scenarioOrder)
	return out
}

// ParseScenario validates a scenario name. Empty selects the median.
func ParseScenario(s string) (Scenario, error) {
	if s == "" {
		return ScenarioMedian, nil
	}
	for _, sc := range scenarioOrder {
		if string(sc) == s {
			return sc, nil
		}
	}
	return "", fmt.Errorf("unknown pace scenario %q", s)
}

// Label returns a human-readable name for the scenario.
func (s Scenario) Label() string {
	switch s {
	case ScenarioFast:
		return "Fast (25th percentile)"
	case ScenarioMedian:
		return "Median"
	case ScenarioAverage:
		return "Average"
	case ScenarioRecent:
		return fmt.Sprintf("Recent (last %d levels)", RecentWindow)
	case ScenarioSlow:
		return "Slow (75th percentile)"
	default:
		return string(s)
	}
}

// Next cycles to the following scenario, wrapping around.
func (s Scenario) Next() Scenario {
	for i, sc := range scenarioOrder {
		if sc == s {
			return scenarioOrder[(i+1)%len(scenarioOrder)]
		}
	}
	return ScenarioMedian
}

// Pace returns the days-per-level figure for a scenario.
func (s *Stats) Pace(sc Scenario) float64 {
	switch sc {
	case ScenarioFast:
		return s.Fast
	case ScenarioAverage:
		return s.Average
	case ScenarioRecent:
		return s.Recent
	case ScenarioSlow:
		return s.Slow
	default:
		return s.Median
	}
}

// LevelsRemaining returns ceiling - current, clamped at zero.
func LevelsRemaining(current, ceiling int) int {
	if current >= ceiling {
		return 0
	}
	return ceiling - current
}

// MaxSpanDays caps a projection at under seven thousand years, which keeps
// finish instants inside the range time.Time can marshal to JSON.
const MaxSpanDays = 2_500_000

// SpanDays returns levelsRemaining * paceDays, zero for non-positive inputs
// and capped at MaxSpanDays.
func SpanDays(paceDays float64, levelsRemaining int) float64 {
	if levelsRemaining <= 0 || paceDays <= 0 {
		return 0
	}
	return math.Min(float64(levelsRemaining)*paceDays, MaxSpanDays)
}

// Forecast projects the completion instant for levelsRemaining levels at
// paceDays per level. Whole days are added on the calendar so spans beyond
// time.Duration's range stay ordered.
func Forecast(paceDays float64, levelsRemaining int, from time.Time) time.Time {
	days := SpanDays(paceDays, levelsRemaining)
	if days == 0 {
		return from
	}
	whole := math.Floor(days)
	frac := time.Duration((days - whole) * 24 * float64(time.Hour))
	return from.UTC().AddDate(0, 0, int(whole)).Add(frac).In(from.Location())
}

// Projection is one scenario's forecast.
type Projection struct {
	Scenario   Scenario  `json:"scenario"`
	PaceDays   float64   `json:"pace_days"`
	FinishAt   time.Time `json:"finish_at"`
	DaysToGo   float64   `json:"days_to_go"`
	LevelsLeft int       `json:"levels_left"`
}

// Project evaluates every scenario against the same remaining-level count.
func Project(s *Stats, levelsRemaining int, from time.Time) []Projection {
	out := make([]Projection, 0, len(scenarioOrder))
	for _, sc := range scenarioOrder {
		p := s.Pace(sc)
		finish := Forecast(p, levelsRemaining, from)
		out = append(out, Projection{
			Scenario:   sc,
			PaceDays:   p,
			FinishAt:   finish,
			DaysToGo:   SpanDays(p, levelsRemaining),
			LevelsLeft: levelsRemaining,
		})
	}
	return out
}
