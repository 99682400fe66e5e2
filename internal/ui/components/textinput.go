package components

import (
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// NumberInput wraps bubbles/textinput and accepts digits only.
type NumberInput struct {
	Model textinput.Model
}

// NewNumberInput creates a focused input limited to maxDigits.
func NewNumberInput(placeholder string, maxDigits int) NumberInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = maxDigits
	ti.Focus()
	return NumberInput{Model: ti}
}

func (n NumberInput) Update(msg tea.Msg) (NumberInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		key := kmsg.String()
		if len(key) == 1 && (key[0] < '0' || key[0] > '9') {
			return n, nil
		}
	}
	var cmd tea.Cmd
	n.Model, cmd = n.Model.Update(msg)
	return n, cmd
}

func (n NumberInput) View() string {
	return n.Model.View()
}

// Int parses the current value.
func (n NumberInput) Int() (int, error) {
	return strconv.Atoi(n.Model.Value())
}

// Clear empties the input.
func (n *NumberInput) Clear() {
	n.Model.SetValue("")
}
