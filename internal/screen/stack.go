package screen

import tea "charm.land/bubbletea/v2"

// Stack holds the open screens; the root is never popped.
type Stack struct {
	screens []Screen
}

func NewStack(root Screen) *Stack {
	return &Stack{screens: []Screen{root}}
}

// Push opens s and runs its Init.
func (st *Stack) Push(s Screen) tea.Cmd {
	st.screens = append(st.screens, s)
	return s.Init()
}

// Pop closes the top screen unless it is the root.
func (st *Stack) Pop() {
	if len(st.screens) > 1 {
		st.screens = st.screens[:len(st.screens)-1]
	}
}

// Unwind closes everything above the root.
func (st *Stack) Unwind() {
	st.screens = st.screens[:1]
}

func (st *Stack) Active() Screen {
	return st.screens[len(st.screens)-1]
}

func (st *Stack) Depth() int {
	return len(st.screens)
}

// Update handles navigation messages and forwards everything else to the
// active screen.
func (st *Stack) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushMsg:
		return st.Push(msg.Screen)
	case PopMsg:
		st.Pop()
		return nil
	}

	updated, cmd := st.Active().Update(msg)
	st.screens[len(st.screens)-1] = updated
	return cmd
}

// Broadcast delivers msg to every open screen, bottom first. Used for data
// that all screens render, such as a refreshed report.
func (st *Stack) Broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, s := range st.screens {
		updated, cmd := s.Update(msg)
		st.screens[i] = updated
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (st *Stack) View(width, height int) string {
	return st.Active().View(width, height)
}
