// Package home is the root screen: a summary card and the main menu.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/levelcast/internal/screen"
	"github.com/abhisek/levelcast/internal/screens/forecast"
	"github.com/abhisek/levelcast/internal/screens/levelup"
	"github.com/abhisek/levelcast/internal/screens/speedup"
	"github.com/abhisek/levelcast/internal/session"
	"github.com/abhisek/levelcast/internal/ui/components"
	"github.com/abhisek/levelcast/internal/ui/format"
	"github.com/abhisek/levelcast/internal/ui/layout"
	"github.com/abhisek/levelcast/internal/ui/theme"
)

// HomeScreen summarises the current report and links to the detail screens.
type HomeScreen struct {
	sess *session.Session
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

func New(sess *session.Session) *HomeScreen {
	h := &HomeScreen{sess: sess}
	h.menu = components.NewMenu(h.items())
	return h
}

func (h *HomeScreen) items() []components.MenuItem {
	noStats := h.sess.Report == nil || h.sess.Report.InsufficientHistory
	return []components.MenuItem{
		{Label: "Pace forecast", Detail: "when you reach the top", Disabled: noStats, Action: func() tea.Cmd {
			return screen.Push(forecast.New(h.sess))
		}},
		{Label: "Next level-up", Detail: "what gates this level", Action: func() tea.Cmd {
			return screen.Push(levelup.New(h.sess))
		}},
		{Label: "Speed up", Detail: "where the time goes", Disabled: noStats, Action: func() tea.Cmd {
			return screen.Push(speedup.New(h.sess))
		}},
		{Label: "Refresh", Detail: "collect records again", Action: func() tea.Cmd {
			return func() tea.Msg { return screen.RefreshMsg{} }
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(screen.ReportReadyMsg); ok {
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.items())
		if !h.menu.Items[selected].Disabled {
			h.menu.Selected = selected
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := min(width-4, 64)
	sections := []string{
		theme.Card.Width(cw).Render(h.summary()),
		h.menu.View(),
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n\n"))
}

func (h *HomeScreen) summary() string {
	r := h.sess.Report
	if r == nil {
		return theme.Hint.Render("No report yet.")
	}

	lines := []string{
		theme.Title.Render(fmt.Sprintf("Level %d", r.CurrentLevel)) +
			theme.Subtitle.Render(fmt.Sprintf(" of %d", r.Ceiling)),
		"",
		row("Next level-up", format.Date(r.LevelUp.LevelUpAt, r.Location)+"  "+theme.Hint.Render(format.Until(r.GeneratedAt, r.LevelUp.LevelUpAt))),
	}

	if r.InsufficientHistory {
		lines = append(lines, "", theme.Warning.Render("Pass a level to unlock pace forecasts."))
		return strings.Join(lines, "\n")
	}

	if p, ok := r.Projection(h.sess.Scenario); ok {
		lines = append(lines,
			row("Pace", format.Days(p.PaceDays)+" per level"),
			row("Level "+fmt.Sprint(r.Ceiling), format.Date(p.FinishAt, r.Location)),
		)
	}
	if r.Speedup != nil {
		lines = append(lines, row("Accuracy", format.Percent(r.Speedup.Accuracy.Percent)))
	}
	return strings.Join(lines, "\n")
}

func row(label, value string) string {
	return theme.Subtitle.Width(16).Render(label) + theme.Body.Render(value)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
