// Package screen defines the TUI screen contract and the navigation stack.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/levelcast/internal/ui/layout"
)

// Screen is one full-frame view between the header and footer.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area only.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// InputCapturer is implemented by screens that are currently reading
// text and want Esc for themselves.
type InputCapturer interface {
	Capturing() bool
}

// RefreshMsg asks the app to collect records and rebuild the report.
type RefreshMsg struct{}

// PushMsg asks the stack to open a screen on top.
type PushMsg struct {
	Screen Screen
}

// PopMsg asks the stack to close the top screen.
type PopMsg struct{}

// Push returns a command that opens s.
func Push(s Screen) tea.Cmd {
	return func() tea.Msg { return PushMsg{Screen: s} }
}

// Pop returns a command that closes the top screen.
func Pop() tea.Cmd {
	return func() tea.Msg { return PopMsg{} }
}

// ReportReadyMsg is broadcast to every open screen after the session's
// report is replaced.
type ReportReadyMsg struct{}
