// Package speedup attributes the gap between the learner's pace and the
// best achievable pace to missed review windows and to incorrect answers.
package speedup

import "github.com/abhisek/levelcast/internal/ladder"

// Tuning holds the decomposition's tunable constants.
type Tuning struct {
	// IdealPaceDays overrides the simulated ideal pace when positive.
	IdealPaceDays float64 `yaml:"ideal_pace_days" json:"ideal_pace_days" validate:"min=0"`

	// MistakeCostHours is the time one incorrect answer costs an item,
	// roughly one ladder interval.
	MistakeCostHours float64 `yaml:"mistake_cost_hours" json:"mistake_cost_hours" validate:"gt=0"`

	// BlendFactor is the share of the smaller saving that still applies
	// when both levers are pulled. Window savings partly subsume mistake
	// savings, so the two do not add.
	BlendFactor float64 `yaml:"blend_factor" json:"blend_factor" validate:"min=0,max=1"`

	// LeechThreshold is the cumulative incorrect count that flags an item.
	LeechThreshold int `yaml:"leech_threshold" json:"leech_threshold" validate:"min=1"`
}

// DefaultTuning returns the constants used unless a tuning file overrides them.
func DefaultTuning() Tuning {
	return Tuning{
		IdealPaceDays:    0,
		MistakeCostHours: ladder.AverageIntervalHours(),
		BlendFactor:      0.4,
		LeechThreshold:   4,
	}
}
