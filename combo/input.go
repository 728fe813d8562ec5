package combo

import (
	tea "charm.land/bubbletea/v2"
)

// Input is the editable search text
type Input struct {
	value     []rune
	cursor    int
	maxLength int
}

func NewInput(maxLength int) Input {
	if maxLength <= 0 {
		maxLength = 100 // Default max length
	}
	return Input{
		maxLength: maxLength,
	}
}

// Update edits the value and reports whether it changed
func (in Input) Update(msg tea.KeyPressMsg) (Input, bool) {

	old := string(in.value)

	switch msg.String() {
	case "backspace":
		if in.cursor > 0 {
			in.value = append(in.value[:in.cursor-1:in.cursor-1], in.value[in.cursor:]...)
			in.cursor--
		}
	case "delete":
		if in.cursor < len(in.value) {
			in.value = append(in.value[:in.cursor:in.cursor], in.value[in.cursor+1:]...)
		}
	case "left":
		if in.cursor > 0 {
			in.cursor--
		}
	case "right":
		if in.cursor < len(in.value) {
			in.cursor++
		}
	case "home", "ctrl+a":
		in.cursor = 0
	case "end", "ctrl+e":
		in.cursor = len(in.value)
	default:
		text := []rune(msg.Text)
		if len(text) > 0 && len(in.value)+len(text) <= in.maxLength {
			value := append([]rune{}, in.value[:in.cursor]...)
			value = append(value, text...)
			in.value = append(value, in.value[in.cursor:]...)
			in.cursor += len(text)
		}
	}

	return in, string(in.value) != old
}

// Set replaces the value, cursor at the end
func (in Input) Set(value string) Input {
	in.value = []rune(value)
	in.cursor = len(in.value)
	return in
}

func (in Input) Value() string {
	return string(in.value)
}

func (in Input) Cursor() int {
	return in.cursor
}

// Render shows the value with a bar at the cursor
func (in Input) Render() string {
	return string(in.value[:in.cursor]) + "▏" + string(in.value[in.cursor:])
}
