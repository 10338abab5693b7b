package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the reader, sidebar, status line and modals.
var (
	ColorBlue   = lipgloss.Color("#00BFFF")
	ColorGray   = lipgloss.Color("#808080")
	ColorNavy   = lipgloss.Color("#1E2A44")
	ColorWhite  = lipgloss.Color("#FFFFFF")
	ColorRed    = lipgloss.Color("#FF6666")
	ColorOrange = lipgloss.Color("#FFAA00")
	ColorPurple = lipgloss.Color("#7D56F4")
)
