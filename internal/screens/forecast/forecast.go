// Package forecast shows the finish date under every pace scenario and a
// what-if projection to a chosen level.
package forecast

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/levelcast/internal/pace"
	"github.com/abhisek/levelcast/internal/screen"
	"github.com/abhisek/levelcast/internal/session"
	"github.com/abhisek/levelcast/internal/ui/components"
	"github.com/abhisek/levelcast/internal/ui/format"
	"github.com/abhisek/levelcast/internal/ui/layout"
	"github.com/abhisek/levelcast/internal/ui/theme"
)

var errNotANumber = errors.New("not a level number")

type ForecastScreen struct {
	sess    *session.Session
	editing bool
	input   components.NumberInput
	err     error
}

var (
	_ screen.Screen        = (*ForecastScreen)(nil)
	_ screen.InputCapturer = (*ForecastScreen)(nil)
)

func New(sess *session.Session) *ForecastScreen {
	return &ForecastScreen{sess: sess}
}

func (f *ForecastScreen) Init() tea.Cmd {
	return nil
}

func (f *ForecastScreen) Title() string {
	return "Pace Forecast"
}

func (f *ForecastScreen) Capturing() bool {
	return f.editing
}

func (f *ForecastScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(screen.ReportReadyMsg); ok {
		f.err = nil
		return f, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if f.editing {
			var cmd tea.Cmd
			f.input, cmd = f.input.Update(msg)
			return f, cmd
		}
		return f, nil
	}

	if f.editing {
		return f.updateInput(kmsg)
	}

	switch kmsg.String() {
	case "tab", "right", "l":
		f.sess.Cycle()
	case "shift+tab", "left", "h":
		f.sess.Select(previous(f.sess.Scenario))
	case "t":
		f.editing = true
		f.err = nil
		f.input = components.NewNumberInput(fmt.Sprintf("1-%d", f.ceiling()), 2)
	case "r":
		f.sess.Reset()
		f.err = nil
	}
	return f, nil
}

func (f *ForecastScreen) updateInput(kmsg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch kmsg.String() {
	case "esc":
		f.editing = false
		return f, nil
	case "enter":
		f.editing = false
		level, err := f.input.Int()
		if err != nil {
			f.err = errNotANumber
			return f, nil
		}
		f.err = f.sess.SetTarget(level)
		return f, nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(kmsg)
	return f, cmd
}

func previous(sc pace.Scenario) pace.Scenario {
	all := pace.Scenarios()
	for i, s := range all {
		if s == sc {
			return all[(i+len(all)-1)%len(all)]
		}
	}
	return pace.ScenarioMedian
}

func (f *ForecastScreen) ceiling() int {
	if f.sess.Report == nil {
		return pace.Ceiling
	}
	return f.sess.Report.Ceiling
}

func (f *ForecastScreen) View(width, height int) string {
	r := f.sess.Report
	if r == nil || r.InsufficientHistory {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Warning.Render("Pass at least one level to see pace forecasts."))
	}

	cw := min(width-4, 78)
	sections := []string{
		theme.Subtitle.Render(fmt.Sprintf("Level %d → %d, %d levels to go, %s policy",
			r.CurrentLevel, r.Ceiling, pace.LevelsRemaining(r.CurrentLevel, r.Ceiling), r.Policy)),
		"",
		f.table(),
		"",
		theme.Card.Width(cw).Render(f.whatIf()),
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

func (f *ForecastScreen) table() string {
	r := f.sess.Report
	header := fmt.Sprintf("  %-26s %12s  %-22s %10s", "Scenario", "Pace", "Reaches top", "Days")
	lines := []string{theme.Subtitle.Render(header)}
	for _, p := range r.Projections {
		line := fmt.Sprintf("%-26s %12s  %-22s %10.0f",
			p.Scenario.Label(), format.Days(p.PaceDays), format.Date(p.FinishAt, r.Location), p.DaysToGo)
		if p.Scenario == f.sess.Scenario {
			lines = append(lines, theme.Selected.Render("▸ "+line))
		} else {
			lines = append(lines, theme.Unselected.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}

func (f *ForecastScreen) whatIf() string {
	r := f.sess.Report
	target := f.sess.Target
	if target == 0 {
		target = r.Ceiling
	}

	var lines []string
	lines = append(lines, theme.Title.Render(fmt.Sprintf("What if: level %d", target)))

	if p, err := f.sess.Current(); err == nil {
		lines = append(lines,
			theme.Body.Render(fmt.Sprintf("At the %s pace you reach it ", strings.ToLower(p.Scenario.Label())))+
				theme.Figure.Render(format.Date(p.FinishAt, r.Location)),
			theme.Hint.Render(fmt.Sprintf("%d levels, %s", p.LevelsLeft, format.Until(r.GeneratedAt, p.FinishAt))),
		)
	}

	if f.editing {
		lines = append(lines, "", theme.Body.Render("Target level: ")+f.input.View())
	}
	if f.err != nil {
		lines = append(lines, "", theme.Warning.Render(f.err.Error()))
	}
	return strings.Join(lines, "\n")
}

func (f *ForecastScreen) KeyHints() []layout.KeyHint {
	if f.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab/←→", Description: "Scenario"},
		{Key: "t", Description: "Target level"},
		{Key: "r", Description: "Reset"},
		{Key: "Esc", Description: "Back"},
	}
}
