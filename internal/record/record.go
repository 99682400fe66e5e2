// Package record defines the read-only value snapshots that flow from a data
// source into the forecasting packages.
package record

import "time"

// LevelAttempt is one pass through one level of the curriculum.
type LevelAttempt struct {
	Level       int        `json:"level" validate:"required,min=1"`
	StartedAt   time.Time  `json:"started_at" validate:"required"`
	PassedAt    *time.Time `json:"passed_at,omitempty"`
	AbandonedAt *time.Time `json:"abandoned_at,omitempty"`
}

// Completed reports whether the attempt was passed and never abandoned.
func (a LevelAttempt) Completed() bool {
	return a.PassedAt != nil && a.AbandonedAt == nil
}

// DurationDays returns passed_at - started_at in fractional days.
// Returns 0 for attempts that were not passed.
func (a LevelAttempt) DurationDays() float64 {
	if a.PassedAt == nil {
		return 0
	}
	return a.PassedAt.Sub(a.StartedAt).Hours() / 24.0
}

// ItemType distinguishes the gating categories of review items.
type ItemType string

const (
	// Foundational items unlock dependent items once they reach mastery.
	Foundational ItemType = "foundational"
	// Dependent items gate the level-up.
	Dependent ItemType = "dependent"
	// Supplementary items never gate the level-up.
	Supplementary ItemType = "supplementary"
)

// ItemState is one item's current position on the mastery ladder.
type ItemState struct {
	ID          int        `json:"id"`
	Type        ItemType   `json:"type" validate:"required,oneof=foundational dependent supplementary"`
	Level       int        `json:"level" validate:"min=0"`
	Stage       int        `json:"stage" validate:"min=0"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	AvailableAt *time.Time `json:"available_at,omitempty"`
	MasteredAt  *time.Time `json:"mastered_at,omitempty"`
}

// OutcomeCounters is the cumulative answer tally for one item across the
// meaning and reading facets.
type OutcomeCounters struct {
	ItemID           int `json:"item_id"`
	MeaningCorrect   int `json:"meaning_correct" validate:"min=0"`
	MeaningIncorrect int `json:"meaning_incorrect" validate:"min=0"`
	ReadingCorrect   int `json:"reading_correct" validate:"min=0"`
	ReadingIncorrect int `json:"reading_incorrect" validate:"min=0"`
}

// Correct returns the number of correct answers across both facets.
func (o OutcomeCounters) Correct() int {
	return o.MeaningCorrect + o.ReadingCorrect
}

// Incorrect returns the number of incorrect answers across both facets.
func (o OutcomeCounters) Incorrect() int {
	return o.MeaningIncorrect + o.ReadingIncorrect
}

// Total returns every recorded answer.
func (o OutcomeCounters) Total() int {
	return o.Correct() + o.Incorrect()
}
