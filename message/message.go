package message

import tea "charm.land/bubbletea/v2"

// ErrorMsg contains an error
type ErrorMsg struct {
	Err error
}

// ErrorCmd returns a command reporting err
func ErrorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

// SelectedMsg reports the record picked from the combo box
type SelectedMsg struct {
	Row   int // 1-indexed for display
	Value string
}
