package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/levelcast/internal/ui/theme"
)

// Bar is a labelled horizontal bar scaled against Max.
type Bar struct {
	Label string
	Value int
	Max   int
	Color color.Color
	Width int
}

// View renders the label, the bar and the count.
func (b Bar) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Text).Width(12).Render(b.Label)
	count := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(" %3d", b.Value))

	barWidth := max(b.Width-lipgloss.Width(label)-lipgloss.Width(count), 4)

	filled := 0
	if b.Max > 0 {
		filled = b.Value * barWidth / b.Max
	}
	filled = min(max(filled, 0), barWidth)
	if b.Value > 0 && filled == 0 {
		filled = 1
	}

	fg := b.Color
	if fg == nil {
		fg = theme.Secondary
	}
	bar := lipgloss.NewStyle().Foreground(fg).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled))

	return label + bar + count
}

// StageBreakdown renders one bar per ladder stage.
func StageBreakdown(counts []int, width int) string {
	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}
	lines := make([]string, len(counts))
	for i, c := range counts {
		var fg color.Color
		if i < len(theme.StageColors) {
			fg = theme.StageColors[i]
		}
		lines[i] = Bar{
			Label: fmt.Sprintf("Stage %d", i),
			Value: c,
			Max:   peak,
			Color: fg,
			Width: width,
		}.View()
	}
	return strings.Join(lines, "\n")
}
