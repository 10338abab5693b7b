package tui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	minWidth  = 40
	minHeight = 8
)

// View renders the reader.
func (p *ReaderPage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Loading document..."
	}

	// If a modal is on the stack, render it full-screen.
	if modal := p.TopModal(); modal != nil {
		return modal.View(width, height)
	}

	if width < minWidth || height < minHeight {
		return "Terminal too small. Resize to at least 40x8."
	}

	return p.renderReader()
}

// renderReader renders the sidebar, document pane and status line.
func (p *ReaderPage) renderReader() string {
	bodyHeight := p.bodyHeight()

	border := ColorGray
	if p.focus == FocusContent {
		border = ColorBlue
	}
	content := lipgloss.NewStyle().
		Width(p.contentWidth() - 2).
		Height(bodyHeight - 2).
		Border(lipgloss.NormalBorder()).
		BorderForeground(border).
		Render(p.vp.View())

	body := content
	if p.sidebarVisible {
		body = lipgloss.JoinHorizontal(lipgloss.Top, p.renderSidebar(bodyHeight), content)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, p.renderStatusLine())
}
