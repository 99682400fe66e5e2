package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/levelcast/internal/logger"
	"github.com/abhisek/levelcast/internal/screen"
	"github.com/abhisek/levelcast/internal/screens/home"
	"github.com/abhisek/levelcast/internal/screens/loading"
	"github.com/abhisek/levelcast/internal/session"
	"github.com/abhisek/levelcast/internal/ui/layout"
)

// buildTimeout bounds one collection, retries included.
const buildTimeout = 2 * time.Minute

// Options configure the TUI.
type Options struct {
	Service *session.Service

	// SourceName is shown in the header, e.g. "api", "cache" or "demo".
	SourceName string

	Log *logger.Logger
}

// reportMsg carries the result of one Build.
type reportMsg struct {
	report *session.Report
	err    error
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	stack   *screen.Stack
	sess    *session.Session
	opts    Options
	loading bool
	width   int
	height  int
}

func newAppModel(opts Options) AppModel {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	return AppModel{
		stack:   screen.NewStack(loading.New()),
		sess:    session.New(opts.Service.Clock.Now()),
		opts:    opts,
		loading: true,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.stack.Active().Init(), m.build())
}

func (m AppModel) build() tea.Cmd {
	svc := m.opts.Service
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
		defer cancel()
		r, err := svc.Build(ctx)
		return reportMsg{report: r, err: err}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case reportMsg:
		return m.handleReport(msg)

	case screen.RefreshMsg:
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.opts.Log.Debug("refreshing report", "session", m.sess.ID)
		return m, m.build()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.stack.Active().(screen.InputCapturer); ok && c.Capturing() {
				break
			}
			if m.stack.Depth() > 1 {
				return m, screen.Pop()
			}
			return m, nil
		}
	}

	cmd := m.stack.Update(msg)
	return m, cmd
}

func (m AppModel) handleReport(msg reportMsg) (tea.Model, tea.Cmd) {
	m.loading = false

	if msg.err != nil {
		m.opts.Log.Error("build report", "error", msg.err)
		failed := loading.Failed(msg.err)
		if m.sess.Report == nil {
			m.stack = screen.NewStack(failed)
			return m, failed.Init()
		}
		// The error sits directly above home so esc lands there.
		m.stack.Unwind()
		return m, m.stack.Push(failed)
	}

	first := m.sess.Report == nil
	m.sess.Attach(msg.report)
	m.opts.Log.Info("report ready",
		"level", msg.report.CurrentLevel,
		"insufficient_history", msg.report.InsufficientHistory,
	)

	if first {
		root := home.New(m.sess)
		m.stack = screen.NewStack(root)
		return m, root.Init()
	}
	if _, ok := m.stack.Active().(*loading.LoadingScreen); ok {
		m.stack.Pop()
	}
	return m, m.stack.Broadcast(screen.ReportReadyMsg{})
}

func (m AppModel) status() string {
	if m.loading {
		return "loading…  "
	}
	if m.sess.Report == nil {
		return m.opts.SourceName + "  "
	}
	return fmt.Sprintf("Lv %d · %s  ", m.sess.Report.CurrentLevel, m.opts.SourceName)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.stack.Active()
	header := layout.RenderHeader(active.Title(), m.status(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.stack.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.stack.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
