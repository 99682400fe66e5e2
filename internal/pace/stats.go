// Package pace summarizes per-level durations into pace figures and projects
// curriculum completion dates from them.
package pace

import (
	"errors"
	"math"
	"sort"

	"github.com/abhisek/levelcast/internal/history"
	"github.com/abhisek/levelcast/internal/record"
)

// ErrInsufficientHistory means the current run has fewer than MinCompleted
// completed levels, so no pace figure is meaningful yet.
var ErrInsufficientHistory = errors.New("pace: insufficient level history")

const (
	// MinCompleted is the fewest completed levels a forecast needs.
	MinCompleted = 2

	// RecentWindow is how many trailing levels the recent average covers.
	RecentWindow = 5

	fastQuantile = 0.25
	slowQuantile = 0.75
)

// Stats holds pace figures in days per level for the current run.
type Stats struct {
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
	Fast    float64 `json:"fast"`
	Slow    float64 `json:"slow"`
	Recent  float64 `json:"recent"`

	Durations []float64             `json:"durations"` // level order
	Sorted    []float64             `json:"sorted"`    // ascending
	Completed []record.LevelAttempt `json:"completed"`
}

// Compute derives Stats from the attempts of the current run (as selected by
// seg) that were passed, never abandoned, and below currentLevel.
func Compute(attempts []record.LevelAttempt, currentLevel int, seg history.Segmenter) (*Stats, error) {
	if seg == nil {
		seg = history.LatestPerLevelPolicy{}
	}

	var completed []record.LevelAttempt
	for _, a := range seg.Segment(attempts) {
		if a.Completed() && a.Level < currentLevel {
			completed = append(completed, a)
		}
	}
	if len(completed) < MinCompleted {
		return nil, ErrInsufficientHistory
	}

	durations := make([]float64, len(completed))
	for i, a := range completed {
		durations[i] = a.DurationDays()
	}
	return FromDurations(durations, completed), nil
}

// FromDurations builds Stats from durations already in level order.
// Callers must supply at least one duration.
func FromDurations(durations []float64, completed []record.LevelAttempt) *Stats {
	n := len(durations)
	sorted := make([]float64, n)
	copy(sorted, durations)
	sort.Float64s(sorted)

	var sum float64
	for _, d := range durations {
		sum += d
	}

	recent := durations
	if n > RecentWindow {
		recent = durations[n-RecentWindow:]
	}
	var recentSum float64
	for _, d := range recent {
		recentSum += d
	}

	return &Stats{
		Average:   sum / float64(n),
		Median:    sorted[(n-1)/2],
		Fast:      quantile(sorted, fastQuantile),
		Slow:      quantile(sorted, slowQuantile),
		Recent:    recentSum / float64(len(recent)),
		Durations: append([]float64(nil), durations...),
		Sorted:    sorted,
		Completed: completed,
	}
}

// quantile is the nearest-rank percentile: the element at rank round(q*n),
// one-based, without interpolation.
func quantile(sorted []float64, q float64) float64 {
	idx := int(math.Round(q*float64(len(sorted)))) - 1
	idx = min(max(idx, 0), len(sorted)-1)
	return sorted[idx]
}

// CompletedLevels returns how many levels contributed to the figures.
func (s *Stats) CompletedLevels() int {
	return len(s.Completed)
}
