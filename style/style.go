package style

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

var (
	BorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")) // Subtle warm grey border
	HlRowStyle  = lipgloss.NewStyle().Background(lipgloss.Color("235")) // Very subtle warm grey row
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("246")) // Warm muted grey text
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("167")) // Dusty red
	PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("179")) // Warm amber
	UnStyle     = lipgloss.NewStyle()

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// RowStyler returns a StyleFunc that highlights the selected row
func RowStyler(selectedRow int) func(row, col int) lipgloss.Style {
	return func(row, col int) lipgloss.Style {
		if row == selectedRow {
			return HlRowStyle
		}
		return UnStyle
	}
}

// StyleDropdown applies the dropdown's borders and separators
func StyleDropdown(tbl *table.Table) {
	tbl.Border(lipgloss.Border{
		Top:         "─",
		Middle:      "─",
		MiddleLeft:  "─",
		MiddleRight: "─",
	}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderStyle(BorderStyle)
}
