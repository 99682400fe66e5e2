// Package speedup shows how much faster the learner could go and why.
package speedup

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/levelcast/internal/screen"
	"github.com/abhisek/levelcast/internal/session"
	"github.com/abhisek/levelcast/internal/speedup"
	"github.com/abhisek/levelcast/internal/ui/components"
	"github.com/abhisek/levelcast/internal/ui/format"
	"github.com/abhisek/levelcast/internal/ui/theme"
)

const maxLeeches = 5

type SpeedupScreen struct {
	sess *session.Session
}

var _ screen.Screen = (*SpeedupScreen)(nil)

func New(sess *session.Session) *SpeedupScreen {
	return &SpeedupScreen{sess: sess}
}

func (s *SpeedupScreen) Init() tea.Cmd { return nil }

func (s *SpeedupScreen) Title() string { return "Speed Up" }

func (s *SpeedupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

func (s *SpeedupScreen) View(width, height int) string {
	r := s.sess.Report
	if r == nil || r.Speedup == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Warning.Render("Pass at least one level to see where time goes."))
	}
	res := r.Speedup
	cw := min(width-4, 72)

	pace := []string{
		row("Your pace", format.Days(res.ActualPace)+" per level"),
		row("Ideal pace", format.Days(res.IdealPace)+" per level"),
		row("Both fixed", format.Days(res.BothOptimizedPace)+" per level"),
	}

	lost := []string{
		theme.Title.Render("Time lost per level"),
		components.Bar{Label: "Windows", Value: tenths(res.WindowLostPerLevel), Max: tenths(peak(res)), Color: theme.Secondary, Width: cw - 6}.View(),
		components.Bar{Label: "Mistakes", Value: tenths(res.MistakeLostPerLevel), Max: tenths(peak(res)), Color: theme.Primary, Width: cw - 6}.View(),
		theme.Hint.Render("tenths of a day"),
		"",
		theme.Title.Render(fmt.Sprintf("Over the last %d levels", res.LevelsRemaining)),
		row("Every window", "save "+format.Days(res.WindowSaving)),
		row("No mistakes", "save "+format.Days(res.MistakeSaving)),
		row("Both", "save ")+theme.Figure.Render(format.Days(res.CombinedSaving)),
	}

	sections := []string{
		theme.Card.Width(cw).Render(strings.Join(pace, "\n")),
		theme.Card.Width(cw).Render(strings.Join(lost, "\n")),
		theme.Card.Width(cw).Render(s.accuracy()),
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

func (s *SpeedupScreen) accuracy() string {
	r := s.sess.Report
	acc := r.Speedup.Accuracy
	lines := []string{
		row("Accuracy", format.Percent(acc.Percent)) +
			theme.Hint.Render(fmt.Sprintf("  %d of %d answers", acc.TotalCorrect, acc.TotalAnswers)),
		row("Leeches", fmt.Sprintf("%d of %d items", acc.Leeches, acc.Items)),
	}
	if r.Snapshot == nil || acc.Leeches == 0 {
		return strings.Join(lines, "\n")
	}

	leeches := speedup.Leeches(r.Snapshot.Outcomes, r.Speedup.LeechThreshold)
	for i, o := range leeches {
		if i == maxLeeches {
			lines = append(lines, theme.Hint.Render(fmt.Sprintf("  and %d more", len(leeches)-maxLeeches)))
			break
		}
		lines = append(lines, theme.Body.Render(fmt.Sprintf("  #%-7d %3d wrong", o.ItemID, o.Incorrect())))
	}
	return strings.Join(lines, "\n")
}

func peak(res *speedup.Result) float64 {
	return max(res.WindowLostPerLevel, res.MistakeLostPerLevel)
}

func tenths(days float64) int {
	return int(days*10 + 0.5)
}

func row(label, value string) string {
	return theme.Subtitle.Width(16).Render(label) + theme.Body.Render(value)
}
