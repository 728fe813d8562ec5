package combosearch

import (
	"strings"

	"charm.land/lipgloss/v2"

	"combosearch/style"
)

// RenderFooter renders left and right aligned footer text across width.
func RenderFooter(left, right string, width int) string {

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return style.MutedStyle.Render(left + strings.Repeat(" ", padding) + right)
}
