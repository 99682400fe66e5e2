package loading

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/levelcast/internal/ui/theme"
)

const bannerArt = `
 ╦  ╔═╗╦  ╦╔═╗╦  ╔═╗╔═╗╔═╗╔╦╗
 ║  ║╣ ╚╗╔╝║╣ ║  ║  ╠═╣╚═╗ ║
 ╩═╝╚═╝ ╚╝ ╚═╝╩═╝╚═╝╩ ╩╚═╝ ╩ `

const bannerCompact = "L E V E L C A S T"

// RenderBanner returns the banner, compact below 34 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 34 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
