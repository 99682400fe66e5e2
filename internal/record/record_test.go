package record

import (
	"errors"
	"testing"
	"time"
)

func ptr(t time.Time) *time.Time { return &t }

func TestLevelAttempt_Completed(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		a    LevelAttempt
		want bool
	}{
		{"in progress", LevelAttempt{Level: 3, StartedAt: start}, false},
		{"passed", LevelAttempt{Level: 3, StartedAt: start, PassedAt: ptr(start.Add(48 * time.Hour))}, true},
		{"passed then abandoned", LevelAttempt{
			Level: 3, StartedAt: start,
			PassedAt:    ptr(start.Add(48 * time.Hour)),
			AbandonedAt: ptr(start.Add(96 * time.Hour)),
		}, false},
	}
	for _, tt := range tests {
		if got := tt.a.Completed(); got != tt.want {
			t.Errorf("%s: Completed() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLevelAttempt_DurationDays(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := LevelAttempt{Level: 1, StartedAt: start, PassedAt: ptr(start.Add(36 * time.Hour))}
	if got := a.DurationDays(); got != 1.5 {
		t.Errorf("DurationDays() = %f, want 1.5", got)
	}

	inFlight := LevelAttempt{Level: 2, StartedAt: start}
	if got := inFlight.DurationDays(); got != 0 {
		t.Errorf("DurationDays() = %f, want 0 for unpassed attempt", got)
	}
}

func TestOutcomeCounters_Totals(t *testing.T) {
	o := OutcomeCounters{MeaningCorrect: 5, MeaningIncorrect: 2, ReadingCorrect: 4, ReadingIncorrect: 3}
	if o.Correct() != 9 {
		t.Errorf("Correct() = %d, want 9", o.Correct())
	}
	if o.Incorrect() != 5 {
		t.Errorf("Incorrect() = %d, want 5", o.Incorrect())
	}
	if o.Total() != 14 {
		t.Errorf("Total() = %d, want 14", o.Total())
	}
}

func TestValidate_LevelAttempt(t *testing.T) {
	ok := LevelAttempt{Level: 1, StartedAt: time.Now()}
	if err := Validate(ok); err != nil {
		t.Fatalf("Validate(valid) = %v", err)
	}

	err := Validate(LevelAttempt{Level: 0})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Errorf("expected 2 field errors (Level, StartedAt), got %d: %v", len(verr.Fields), verr)
	}
}

func TestValidate_ItemType(t *testing.T) {
	err := Validate(ItemState{Type: "bogus"})
	if err == nil {
		t.Fatal("expected error for unknown item type")
	}
}

func TestValidateItem_StartedNeedsAvailability(t *testing.T) {
	now := time.Now()
	err := ValidateItem(ItemState{Type: Dependent, StartedAt: &now})
	if err == nil {
		t.Fatal("expected error for started item without available_at")
	}

	mastered := ItemState{Type: Dependent, StartedAt: &now, MasteredAt: &now}
	if err := ValidateItem(mastered); err != nil {
		t.Errorf("mastered item should not need available_at: %v", err)
	}
}
