package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/levelcast/internal/ladder"
	"github.com/abhisek/levelcast/internal/record"
)

// masteredSRSStage is the first remote SRS stage past the ladder.
const masteredSRSStage = 5

type envelope struct {
	Object string          `json:"object"`
	Data   json.RawMessage `json:"data"`
}

type collection struct {
	Object string `json:"object"`
	Pages  struct {
		NextURL *string `json:"next_url"`
	} `json:"pages"`
	Data []struct {
		ID     int             `json:"id"`
		Object string          `json:"object"`
		Data   json.RawMessage `json:"data"`
	} `json:"data"`
}

type userData struct {
	Level    int    `json:"level"`
	Username string `json:"username"`
}

type levelProgressionData struct {
	Level       int        `json:"level"`
	UnlockedAt  *time.Time `json:"unlocked_at"`
	StartedAt   *time.Time `json:"started_at"`
	PassedAt    *time.Time `json:"passed_at"`
	AbandonedAt *time.Time `json:"abandoned_at"`
}

type assignmentData struct {
	SubjectID   int        `json:"subject_id"`
	SubjectType string     `json:"subject_type"`
	SRSStage    int        `json:"srs_stage"`
	StartedAt   *time.Time `json:"started_at"`
	AvailableAt *time.Time `json:"available_at"`
	PassedAt    *time.Time `json:"passed_at"`
}

type reviewStatisticData struct {
	SubjectID        int `json:"subject_id"`
	MeaningCorrect   int `json:"meaning_correct"`
	MeaningIncorrect int `json:"meaning_incorrect"`
	ReadingCorrect   int `json:"reading_correct"`
	ReadingIncorrect int `json:"reading_incorrect"`
}

// toAttempt maps a level progression. Levels unlocked but never started
// report ok=false.
func (d levelProgressionData) toAttempt() (record.LevelAttempt, bool) {
	start := d.StartedAt
	if start == nil {
		start = d.UnlockedAt
	}
	if start == nil {
		return record.LevelAttempt{}, false
	}
	return record.LevelAttempt{
		Level:       d.Level,
		StartedAt:   *start,
		PassedAt:    d.PassedAt,
		AbandonedAt: d.AbandonedAt,
	}, true
}

func itemType(subjectType string) (record.ItemType, error) {
	switch subjectType {
	case "radical":
		return record.Foundational, nil
	case "kanji":
		return record.Dependent, nil
	case "vocabulary", "kana_vocabulary":
		return record.Supplementary, nil
	default:
		return "", fmt.Errorf("unknown subject type %q", subjectType)
	}
}

// toItem maps an assignment to the ladder: remote stages 1..4 are ladder
// stages 0..3 and anything from 5 up is mastered. Stage 0 is a lesson not
// yet taken.
func (d assignmentData) toItem(level int) (record.ItemState, error) {
	typ, err := itemType(d.SubjectType)
	if err != nil {
		return record.ItemState{}, err
	}
	it := record.ItemState{
		ID:    d.SubjectID,
		Type:  typ,
		Level: level,
	}
	if d.SRSStage <= 0 || d.StartedAt == nil {
		return it, nil
	}

	it.StartedAt = d.StartedAt
	if d.SRSStage >= masteredSRSStage {
		it.Stage = ladder.MasteryStage
		mastered := d.PassedAt
		if mastered == nil {
			mastered = d.StartedAt
		}
		it.MasteredAt = mastered
		return it, nil
	}
	it.Stage = d.SRSStage - 1
	it.AvailableAt = d.AvailableAt
	return it, nil
}

func (d reviewStatisticData) toOutcome() record.OutcomeCounters {
	return record.OutcomeCounters{
		ItemID:           d.SubjectID,
		MeaningCorrect:   d.MeaningCorrect,
		MeaningIncorrect: d.MeaningIncorrect,
		ReadingCorrect:   d.ReadingCorrect,
		ReadingIncorrect: d.ReadingIncorrect,
	}
}
