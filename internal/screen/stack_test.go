package screen

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

type stubScreen struct {
	title   string
	initRan bool
	got     []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

type pingMsg struct{}

func TestPush(t *testing.T) {
	st := NewStack(&stubScreen{title: "home"})
	next := &stubScreen{title: "forecast"}
	st.Update(PushMsg{Screen: next})

	if st.Depth() != 2 {
		t.Errorf("Depth = %d, want 2", st.Depth())
	}
	if st.Active().Title() != "forecast" {
		t.Errorf("Active = %q, want forecast", st.Active().Title())
	}
	if !next.initRan {
		t.Error("expected Init on pushed screen")
	}
}

func TestPopKeepsRoot(t *testing.T) {
	st := NewStack(&stubScreen{title: "home"})
	st.Update(PopMsg{})
	if st.Depth() != 1 {
		t.Errorf("Depth = %d, want 1", st.Depth())
	}

	st.Push(&stubScreen{title: "a"})
	st.Push(&stubScreen{title: "b"})
	st.Update(PopMsg{})
	if st.Active().Title() != "a" {
		t.Errorf("Active = %q, want a", st.Active().Title())
	}

	st.Unwind()
	if st.Depth() != 1 || st.Active().Title() != "home" {
		t.Errorf("Unwind left depth %d on %q", st.Depth(), st.Active().Title())
	}
}

func TestUpdateReachesActiveOnly(t *testing.T) {
	root := &stubScreen{title: "home"}
	top := &stubScreen{title: "top"}
	st := NewStack(root)
	st.Push(top)

	st.Update(pingMsg{})
	if len(top.got) != 1 || len(root.got) != 0 {
		t.Errorf("root got %d, top got %d; want 0 and 1", len(root.got), len(top.got))
	}
}

func TestBroadcastReachesAll(t *testing.T) {
	root := &stubScreen{title: "home"}
	top := &stubScreen{title: "top"}
	st := NewStack(root)
	st.Push(top)

	st.Broadcast(pingMsg{})
	if len(top.got) != 1 || len(root.got) != 1 {
		t.Errorf("root got %d, top got %d; want 1 and 1", len(root.got), len(top.got))
	}
}

func TestPushPopCommands(t *testing.T) {
	s := &stubScreen{title: "x"}
	if msg, ok := Push(s)().(PushMsg); !ok || msg.Screen != s {
		t.Error("Push should produce a PushMsg for the screen")
	}
	if _, ok := Pop()().(PopMsg); !ok {
		t.Error("Pop should produce a PopMsg")
	}
}
