// Package loading is the screen shown while records are collected, and
// after collection fails.
package loading

import (
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/levelcast/internal/screen"
	"github.com/abhisek/levelcast/internal/source"
	"github.com/abhisek/levelcast/internal/store"
	"github.com/abhisek/levelcast/internal/ui/theme"
)

const tickInterval = 120 * time.Millisecond

// The ladder, climbing.
var frames = []string{"▁   ", "▁▃  ", "▁▃▅ ", "▁▃▅▇", " ▃▅▇", "  ▅▇", "   ▇", "    "}

type tickMsg time.Time

// LoadingScreen animates while the report builds and explains failures.
type LoadingScreen struct {
	tick int
	err  error
}

var _ screen.Screen = (*LoadingScreen)(nil)

func New() *LoadingScreen {
	return &LoadingScreen{}
}

// Failed shows err with a retry prompt.
func Failed(err error) *LoadingScreen {
	return &LoadingScreen{err: err}
}

func (l *LoadingScreen) Title() string { return "" }

func (l *LoadingScreen) Init() tea.Cmd {
	if l.err != nil {
		return nil
	}
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (l *LoadingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if l.err != nil {
			return l, nil
		}
		l.tick++
		return l, tick()

	case tea.KeyPressMsg:
		if l.err != nil && msg.String() == "r" {
			l.err = nil
			return l, tea.Batch(tick(), func() tea.Msg { return screen.RefreshMsg{} })
		}
	}
	return l, nil
}

func (l *LoadingScreen) View(width, height int) string {
	sections := []string{RenderBanner(width), ""}

	if l.err == nil {
		bar := lipgloss.NewStyle().Foreground(theme.Secondary).Render(frames[l.tick%len(frames)])
		sections = append(sections, bar+"  "+theme.Body.Render("Collecting records..."))
	} else {
		sections = append(sections,
			theme.Warning.Render(Explain(l.err)),
			"",
			theme.Hint.Render(l.err.Error()),
			"",
			theme.Hint.Render("press r to retry, ctrl+c to quit"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

// Explain turns a collection error into advice.
func Explain(err error) string {
	var unauth *source.ErrUnauthorized
	var unavail *source.ErrSourceUnavailable
	switch {
	case errors.As(err, &unauth):
		return "The API token was rejected. Check LEVELCAST_API_TOKEN."
	case errors.As(err, &unavail):
		return "The review service is unreachable. Try --offline to use cached records."
	case errors.Is(err, store.ErrNoSnapshot):
		return "No cached records yet. Run `levelcast sync` while online."
	default:
		return "Could not build the forecast."
	}
}
