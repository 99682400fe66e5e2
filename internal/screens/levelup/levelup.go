// Package levelup shows what gates the current level and when it will pass.
package levelup

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/levelcast/internal/levelup"
	"github.com/abhisek/levelcast/internal/screen"
	"github.com/abhisek/levelcast/internal/session"
	"github.com/abhisek/levelcast/internal/ui/components"
	"github.com/abhisek/levelcast/internal/ui/format"
	"github.com/abhisek/levelcast/internal/ui/theme"
)

const maxUpcoming = 8

type LevelUpScreen struct {
	sess   *session.Session
	offset int
}

var _ screen.Screen = (*LevelUpScreen)(nil)

func New(sess *session.Session) *LevelUpScreen {
	return &LevelUpScreen{sess: sess}
}

func (l *LevelUpScreen) Init() tea.Cmd { return nil }

func (l *LevelUpScreen) Title() string { return "Next Level-Up" }

func (l *LevelUpScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ReportReadyMsg:
		l.offset = 0
	case tea.KeyMsg:
		switch msg.String() {
		case "down", "j":
			if l.offset+maxUpcoming < len(l.items()) {
				l.offset++
			}
		case "up", "k":
			if l.offset > 0 {
				l.offset--
			}
		}
	}
	return l, nil
}

func (l *LevelUpScreen) items() []levelup.ItemForecast {
	if l.sess.Report == nil {
		return nil
	}
	return l.sess.Report.LevelUp.Items
}

func (l *LevelUpScreen) View(width, height int) string {
	r := l.sess.Report
	if r == nil {
		return ""
	}
	res := r.LevelUp
	cw := min(width-4, 72)

	head := []string{
		theme.Subtitle.Render(fmt.Sprintf("Level %d passes", r.CurrentLevel)),
		theme.Figure.Render(format.Date(res.LevelUpAt, r.Location)) + "  " +
			theme.Hint.Render(format.Until(r.GeneratedAt, res.LevelUpAt)),
		"",
		theme.Body.Render(gateText(res)),
	}
	if c := res.Critical; c != nil {
		head = append(head, theme.Body.Render(fmt.Sprintf("Slowest item: #%d (%s, stage %d) masters %s",
			c.ID, c.Type, c.Stage, format.Date(c.MasteredAt, r.Location))))
	}

	sections := []string{
		theme.Card.Width(cw).Render(strings.Join(head, "\n")),
	}
	if res.BlockingCount > 0 {
		sections = append(sections,
			theme.Subtitle.Render("Blocking items by stage"),
			components.StageBreakdown(res.StageBreakdown[:], cw),
			"",
			l.upcoming(),
		)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

func gateText(res levelup.Result) string {
	switch res.Gate {
	case levelup.GateDependent:
		return fmt.Sprintf("Gated by %.0f%% of dependent items; %d items still climbing.",
			levelup.DependentPassRatio*100, res.BlockingCount)
	case levelup.GateFoundational:
		return fmt.Sprintf("Gated by the last foundational item; %d items still climbing.", res.BlockingCount)
	default:
		return "Nothing is blocking. The level passes at the next review window."
	}
}

func (l *LevelUpScreen) upcoming() string {
	r := l.sess.Report
	items := l.items()
	end := min(l.offset+maxUpcoming, len(items))

	lines := []string{theme.Subtitle.Render(fmt.Sprintf("  %-8s %-14s %5s  %s", "Item", "Type", "Stage", "Masters"))}
	for _, it := range items[l.offset:end] {
		lines = append(lines, theme.Body.Render(fmt.Sprintf("  #%-7d %-14s %5d  %s",
			it.ID, it.Type, it.Stage, format.Date(it.MasteredAt, r.Location))))
	}
	if len(items) > maxUpcoming {
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("  %d-%d of %d, ↑↓ to scroll", l.offset+1, end, len(items))))
	}
	return strings.Join(lines, "\n")
}
