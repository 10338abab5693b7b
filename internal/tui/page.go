package tui

import tea "github.com/charmbracelet/bubbletea"

// Page is a top-level screen. App forwards every message to the active
// page and switches pages when Update returns a PageNav.
type Page interface {
	ID() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// PageNav requests a page switch.
type PageNav struct {
	PageID string
	Params any
}
