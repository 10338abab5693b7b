package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// errorDisplayTime is how long an error stays on the status line.
const errorDisplayTime = 30 * time.Second

func renderBranding() string {
	return lipgloss.NewStyle().
		Background(ColorNavy).
		Foreground(ColorPurple).
		Bold(true).
		Render("scrollspy")
}

// renderStatusLine renders the bottom bar: active section on the left, key
// hints in the middle and reader state on the right.
func (p *ReaderPage) renderStatusLine() string {
	baseStyle := lipgloss.NewStyle().
		Background(ColorNavy).
		Foreground(ColorWhite)

	w := p.width
	veryNarrow := w < 60
	narrow := w < 80
	medium := w < 120

	var leftText string
	name := p.doc.Title
	if active, ok := p.coord.ActiveID(); ok {
		if s, found := p.doc.Section(active); found {
			name = s.Label
		}
	}
	if veryNarrow {
		leftText = name
	} else {
		leftText = fmt.Sprintf("[%s]", name)
	}

	var statusText string
	switch {
	case veryNarrow:
		statusText = "? • n/p • q"
	case narrow:
		statusText = "?: Help • n/p: Section • q: Quit"
	case medium:
		statusText = "?: Help • Tab: Sidebar • n/p: Section • Enter: Go • q: Quit"
	default:
		statusText = "?: Help • Wheel: scroll • Tab: Sidebar • Click: Go to section • n/p: Next/Prev • r: Reload • q: Quit"
	}

	var rightParts []string
	if p.lastError != "" && time.Since(p.lastErrorAt) < errorDisplayTime {
		rightParts = append(rightParts, lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorRed).
			Faint(true).
			Render("error"))
	}
	if p.coord.Suppressed() {
		rightParts = append(rightParts, lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorOrange).
			Render("◌ settling"))
	}
	if !veryNarrow {
		rightParts = append(rightParts, fmt.Sprintf("%3.0f%%", p.vp.ScrollPercent()*100))
	}
	if w >= 30 {
		rightParts = append(rightParts, renderBranding())
	}
	rightText := strings.Join(rightParts, "  ")

	leftWidth := lipgloss.Width(leftText) + 2
	rightWidth := lipgloss.Width(rightText) + 2
	if leftWidth+rightWidth >= w {
		if w < 20 {
			return baseStyle.Width(w).Render(leftText)
		}
		leftWidth = min(leftWidth, w/3)
		rightWidth = min(rightWidth, w-leftWidth)
	}
	centerWidth := max(w-leftWidth-rightWidth, 0)

	leftStyle := baseStyle.Align(lipgloss.Left).Width(leftWidth)
	centerStyle := baseStyle.Align(lipgloss.Center).Width(centerWidth)
	rightStyle := baseStyle.Align(lipgloss.Right).Width(rightWidth)

	// Truncate content if necessary to prevent wrapping.
	if lipgloss.Width(leftText) > leftWidth {
		leftText = truncate(leftText, leftWidth-1)
	}
	if lipgloss.Width(statusText) > centerWidth {
		statusText = truncate(statusText, centerWidth-1)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		leftStyle.Render(leftText),
		centerStyle.Render(statusText),
		rightStyle.Render(rightText),
	)
}

func truncate(s string, width int) string {
	return runewidth.Truncate(s, max(width, 0), "~")
}
