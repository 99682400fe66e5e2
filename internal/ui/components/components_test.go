package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "off", Disabled: true},
		{Label: "a"},
		{Label: "off2", Disabled: true},
		{Label: "b"},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("after down Selected = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("after up Selected = %d, want 1", m.Selected)
	}
}

func TestMenu_EnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "go", Action: func() tea.Cmd {
		ran = true
		return nil
	}}})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !ran {
		t.Error("expected action to run")
	}
}

func TestMenu_ViewMarksSelection(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "first"}, {Label: "second", Detail: "ctx"}})
	v := m.View()
	if !strings.Contains(v, "▸ first") {
		t.Errorf("view should mark the selected item:\n%s", v)
	}
	if !strings.Contains(v, "ctx") {
		t.Error("view should include item detail")
	}
}

func TestStageBreakdown(t *testing.T) {
	v := StageBreakdown([]int{3, 0, 6, 1}, 40)
	lines := strings.Split(v, "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4", len(lines))
	}
	if !strings.Contains(lines[2], "Stage 2") || !strings.Contains(lines[2], "6") {
		t.Errorf("unexpected stage 2 line: %q", lines[2])
	}
}

func TestNumberInput_DigitsOnly(t *testing.T) {
	n := NewNumberInput("level", 2)
	n, _ = n.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	n, _ = n.Update(tea.KeyPressMsg{Code: '4', Text: "4"})
	n, _ = n.Update(tea.KeyPressMsg{Code: '2', Text: "2"})
	got, err := n.Int()
	if err != nil || got != 42 {
		t.Errorf("Int() = %d, %v; want 42", got, err)
	}
	n.Clear()
	if _, err := n.Int(); err == nil {
		t.Error("cleared input should not parse")
	}
}
