package speedup

import (
	"sort"

	"github.com/abhisek/levelcast/internal/record"
)

// Accuracy is the aggregate answer tally across items.
type Accuracy struct {
	TotalCorrect   int     `json:"total_correct"`
	TotalIncorrect int     `json:"total_incorrect"`
	TotalAnswers   int     `json:"total_answers"`
	Percent        float64 `json:"percent"`
	Leeches        int     `json:"leeches"`
	Items          int     `json:"items"`
}

// Tally sums outcome counters. Accuracy is 100 when nothing was answered.
func Tally(outcomes []record.OutcomeCounters, leechThreshold int) Accuracy {
	var a Accuracy
	for _, o := range outcomes {
		a.TotalCorrect += o.Correct()
		a.TotalIncorrect += o.Incorrect()
		if leechThreshold > 0 && o.Incorrect() >= leechThreshold {
			a.Leeches++
		}
	}
	a.Items = len(outcomes)
	a.TotalAnswers = a.TotalCorrect + a.TotalIncorrect
	if a.TotalAnswers == 0 {
		a.Percent = 100
	} else {
		a.Percent = float64(a.TotalCorrect) / float64(a.TotalAnswers) * 100
	}
	return a
}

// Leeches returns the outcome counters at or above the threshold, most
// incorrect first.
func Leeches(outcomes []record.OutcomeCounters, threshold int) []record.OutcomeCounters {
	var out []record.OutcomeCounters
	for _, o := range outcomes {
		if o.Incorrect() >= threshold {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Incorrect() > out[j].Incorrect()
	})
	return out
}
