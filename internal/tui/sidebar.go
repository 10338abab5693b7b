package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/scrollspy/internal/scrollspy"
)

const sidebarWidth = 26

// sidebarHeaderRows is the number of rows above the first nav link.
const sidebarHeaderRows = 2

// navLink is a sidebar entry the coordinator can highlight.
type navLink struct {
	id     string
	label  string
	active bool
}

func (l *navLink) SetActive(active bool) { l.active = active }

// resolveLink maps a section to its sidebar entry. Orphan sections return a
// nil interface, not a typed nil pointer.
func (p *ReaderPage) resolveLink(id string) scrollspy.NavLink {
	if l, ok := p.links[id]; ok {
		return l
	}
	return nil
}

func (p *ReaderPage) clampSidebarCursor() {
	n := len(p.nav)
	if n == 0 {
		p.sidebarCursor = 0
		return
	}
	p.sidebarCursor = min(max(p.sidebarCursor, 0), n-1)
}

func (p *ReaderPage) moveSidebarCursor(delta int) {
	p.sidebarCursor += delta
	p.clampSidebarCursor()
}

// activateSidebarCursor navigates to the entry under the cursor.
func (p *ReaderPage) activateSidebarCursor() {
	p.clampSidebarCursor()
	if len(p.nav) == 0 {
		return
	}
	p.navigate(p.nav[p.sidebarCursor].id)
}

// followActive moves the cursor onto the active link while the content pane
// has focus.
func (p *ReaderPage) followActive(id string) {
	if p.focus == FocusSidebar {
		return
	}
	for i, l := range p.nav {
		if l.id == id {
			p.sidebarCursor = i
			return
		}
	}
}

func (p *ReaderPage) buildSidebarLines() ([]string, map[int]int) {
	rowToCursor := make(map[int]int, len(p.nav))
	lines := make([]string, 0, len(p.nav)+sidebarHeaderRows)

	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Contents"), "")

	if len(p.nav) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorGray).Render("  (no sections)"))
	}

	maxLabelWidth := sidebarWidth - 4
	for i, l := range p.nav {
		marker := "  "
		if l.active {
			marker = "▌ "
		}
		label := marker + truncate(l.label, maxLabelWidth-2)

		style := lipgloss.NewStyle()
		if l.active {
			style = style.Foreground(ColorPurple).Bold(true)
		}
		if p.focus == FocusSidebar && p.sidebarCursor == i {
			style = style.Foreground(ColorBlue).Bold(true).Underline(true)
		}

		rowToCursor[len(lines)] = i
		lines = append(lines, style.Render(label))
	}
	return lines, rowToCursor
}

// sidebarCursorAtMouseRow maps a terminal row to a nav entry. Row 0 is the
// sidebar's top border.
func (p *ReaderPage) sidebarCursorAtMouseRow(y int) (int, bool) {
	lines, rowToCursor := p.buildSidebarLines()
	idx, ok := rowToCursor[y-1+p.sidebarStart(len(lines), p.bodyHeight())]
	return idx, ok
}

// renderSidebar renders the section navigation in the left sidebar.
func (p *ReaderPage) renderSidebar(height int) string {
	p.clampSidebarCursor()

	style := lipgloss.NewStyle().
		Width(sidebarWidth-2).
		Height(max(height-2, 1)).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Padding(0, 1)

	if p.focus == FocusSidebar {
		style = style.BorderForeground(ColorBlue)
	}

	lines, _ := p.buildSidebarLines()
	inner := max(height-2, 1)
	if len(lines) > inner {
		start := p.sidebarStart(len(lines), height)
		lines = lines[start : start+inner]
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// sidebarStart returns the first visible sidebar line so the cursor stays in
// view when the list is taller than the pane.
func (p *ReaderPage) sidebarStart(total, height int) int {
	inner := max(height-2, 1)
	if total <= inner {
		return 0
	}
	start := p.sidebarCursor + sidebarHeaderRows - inner + 1
	return min(max(start, 0), total-inner)
}
