package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// renderModalFrame renders a centred, bordered modal around a scrollable
// viewport.
func renderModalFrame(vp *viewport.Model, title, content string, status []string, width, height int) string {
	modalWidth := max(width-8, 20)  // 4 chars margin on each side
	modalHeight := max(height-4, 8) // 2 lines margin top and bottom

	contentWidth := modalWidth - 4   // Modal borders
	contentHeight := modalHeight - 4 // Header + status

	vp.Width = contentWidth
	vp.Height = contentHeight
	vp.SetContent(content)

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

	statusBar := renderModalStatusBar(status)

	modal := lipgloss.JoinVertical(lipgloss.Left, header, contentPane, statusBar)

	finalModal := lipgloss.NewStyle().
		Width(modalWidth).
		Height(modalHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, finalModal)
}

// renderModalStatusBar renders the hint line under a modal.
func renderModalStatusBar(items []string) string {
	if len(items) == 0 {
		items = []string{"up/down/Wheel: Scroll", "PgUp/PgDn: Page", "ESC: Close"}
	}
	return lipgloss.NewStyle().
		Foreground(ColorGray).
		Render(strings.Join(items, " | "))
}
