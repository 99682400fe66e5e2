// Package demo generates a plausible synthetic learner so every surface
// works without an API token.
package demo

import (
	"math/rand/v2"
	"time"

	"github.com/abhisek/levelcast/internal/ladder"
	"github.com/abhisek/levelcast/internal/record"
	"github.com/abhisek/levelcast/internal/source"
)

const (
	radicalsPerLevel = 6
	kanjiPerLevel    = 26
	day              = 24 * time.Hour
)

// Learner is a deterministic synthetic record set served as a Source.
type Learner struct {
	source.Static
}

// New builds a learner for seed with now as the current instant. The
// history includes one early run abandoned at a restart.
func New(seed uint64, now time.Time) *Learner {
	g := &generator{
		r:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: now,
	}
	return &Learner{Static: source.Static{Snap: g.snapshot()}}
}

type generator struct {
	r   *rand.Rand
	now time.Time
}

func (g *generator) snapshot() *source.Snapshot {
	current := 18 + g.r.IntN(22)
	levelStart := g.now.Add(-time.Duration(1+g.r.IntN(6)) * day).Add(-time.Duration(g.r.IntN(24)) * time.Hour)

	attempts := g.attempts(current, levelStart)
	return &source.Snapshot{
		CollectedAt:  g.now,
		CurrentLevel: current,
		Attempts:     attempts,
		Items:        g.items(current, levelStart),
		Outcomes:     g.outcomes(current),
	}
}

// levelDays samples one level's duration: mostly a steady pace, sometimes
// a long break.
func (g *generator) levelDays(base float64) float64 {
	if g.r.Float64() < 0.1 {
		return 18 + g.r.Float64()*25
	}
	return base + g.r.NormFloat64()*1.5
}

func (g *generator) attempts(current int, levelStart time.Time) []record.LevelAttempt {
	base := 7.5 + g.r.Float64()*5

	// Current run, built backwards from the level in progress.
	run := make([]record.LevelAttempt, current)
	run[current-1] = record.LevelAttempt{Level: current, StartedAt: levelStart}
	start := levelStart
	for level := current - 1; level >= 1; level-- {
		d := max(g.levelDays(base), 6.9)
		passed := start
		start = passed.Add(-time.Duration(d * float64(day)))
		run[level-1] = record.LevelAttempt{Level: level, StartedAt: start, PassedAt: &passed}
	}

	// An earlier run that was abandoned at restart.
	restart := start.Add(-time.Duration(30+g.r.IntN(120)) * day)
	oldLevels := 3 + g.r.IntN(3)
	old := make([]record.LevelAttempt, oldLevels)
	s := restart
	for level := oldLevels; level >= 1; level-- {
		d := max(g.levelDays(base*1.4), 6.9)
		end := s
		s = end.Add(-time.Duration(d * float64(day)))
		a := record.LevelAttempt{Level: level, StartedAt: s, AbandonedAt: &restart}
		if level < oldLevels {
			passed := end
			a.PassedAt = &passed
		}
		old[level-1] = a
	}

	return append(old, run...)
}

func (g *generator) items(current int, levelStart time.Time) []record.ItemState {
	elapsed := g.now.Sub(levelStart).Hours() / 24
	var out []record.ItemState

	radicalsDone := true
	for k := 0; k < radicalsPerLevel; k++ {
		it := g.started(current, k, record.Foundational, levelStart.Add(time.Duration(g.r.IntN(3))*time.Hour))
		if elapsed > 3.5 && g.r.Float64() < 0.8 {
			g.master(&it)
		} else {
			it.Stage = min(ladder.MasteryStage-1, int(elapsed/0.9))
			g.schedule(&it)
			radicalsDone = false
		}
		out = append(out, it)
	}

	for k := 0; k < kanjiPerLevel; k++ {
		id := radicalsPerLevel + k
		// Roughly a third of the kanji wait on this level's radicals.
		if k%3 == 2 && !radicalsDone {
			out = append(out, record.ItemState{ID: current*1000 + id, Type: record.Dependent, Level: current})
			continue
		}
		it := g.started(current, id, record.Dependent, levelStart.Add(time.Duration(g.r.IntN(12))*time.Hour))
		it.Stage = g.r.IntN(min(ladder.MasteryStage, 1+int(elapsed)))
		g.schedule(&it)
		out = append(out, it)
	}
	return out
}

func (g *generator) started(level, k int, typ record.ItemType, at time.Time) record.ItemState {
	return record.ItemState{
		ID:        level*1000 + k,
		Type:      typ,
		Level:     level,
		StartedAt: &at,
	}
}

func (g *generator) master(it *record.ItemState) {
	at := it.StartedAt.Add(ladder.TotalWait() + time.Duration(g.r.IntN(24))*time.Hour)
	if at.After(g.now) {
		at = g.now.Add(-time.Hour)
	}
	it.Stage = ladder.MasteryStage
	it.MasteredAt = &at
}

// schedule sets the next availability somewhere between six hours overdue
// and one interval ahead.
func (g *generator) schedule(it *record.ItemState) {
	ahead := ladder.IntervalFor(it.Stage)
	offset := time.Duration(g.r.Int64N(int64(ahead+6*time.Hour))) - 6*time.Hour
	at := g.now.Add(offset).Truncate(time.Hour)
	it.AvailableAt = &at
}

func (g *generator) outcomes(current int) []record.OutcomeCounters {
	var out []record.OutcomeCounters
	for level := 1; level <= current; level++ {
		for k := 0; k < radicalsPerLevel+kanjiPerLevel; k++ {
			o := record.OutcomeCounters{
				ItemID:           level*1000 + k,
				MeaningCorrect:   4 + g.r.IntN(12),
				MeaningIncorrect: g.mistakes(),
			}
			if k >= radicalsPerLevel {
				o.ReadingCorrect = 4 + g.r.IntN(12)
				o.ReadingIncorrect = g.mistakes()
			}
			out = append(out, o)
		}
	}
	return out
}

func (g *generator) mistakes() int {
	switch p := g.r.Float64(); {
	case p < 0.03:
		return 4 + g.r.IntN(6)
	case p < 0.35:
		return 1 + g.r.IntN(2)
	default:
		return 0
	}
}
