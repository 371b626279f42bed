package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// sizer is implemented by modals whose layout depends on the terminal size.
type sizer interface {
	SetSize(width, height int)
}

// modalContentSize returns the inner pane size of a full-screen modal.
func modalContentSize(width, height int) (int, int) {
	modalWidth := width - 8   // 4 chars margin on each side
	modalHeight := height - 6 // 3 lines margin top and bottom

	// Account for borders and headers
	return max(modalWidth-4, 10), max(modalHeight-4, 3)
}

// renderScrollModal renders a full-screen scrollable modal around vp.
func renderScrollModal(vp viewport.Model, title string, width, height int) string {
	contentWidth, contentHeight := modalContentSize(width, height)

	contentPane := lipgloss.NewStyle().
		Width(contentWidth).
		Height(contentHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Render(vp.View())

	header := lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(ColorBlue).
		Bold(true).
		Render(title)

	statusBar := renderModalStatusBar("up/down/Wheel: Scroll", "PgUp/PgDn: Page", "Any other key: Close")

	modal := lipgloss.JoinVertical(lipgloss.Left, header, contentPane, statusBar)

	finalModal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Padding(0, 1).
		Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, finalModal)
}

// renderDialog renders a small centered box sized to its body.
func renderDialog(title, body string, accent lipgloss.Color, width, height int) string {
	boxWidth := min(max(width-8, 20), 70)

	header := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Render(title)

	content := lipgloss.NewStyle().
		Width(boxWidth - 4).
		Render(body)

	box := lipgloss.NewStyle().
		Width(boxWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, "", content))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// renderModalStatusBar renders the hint line at the bottom of a modal.
func renderModalStatusBar(items ...string) string {
	return lipgloss.NewStyle().
		Foreground(ColorGray).
		Render(strings.Join(items, " | "))
}
