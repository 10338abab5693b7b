package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModal displays key bindings and how section tracking works.
type HelpModal struct {
	ctx      ModalContext
	keys     KeyMap
	viewport viewport.Model
}

// NewHelpModal builds the help modal for keys.
func NewHelpModal(ctx ModalContext, keys KeyMap) *HelpModal {
	return &HelpModal{
		ctx:      ctx,
		keys:     keys,
		viewport: viewport.New(80, 20),
	}
}

func (h *HelpModal) ID() string { return "help" }

func (h *HelpModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, h.keys.Up):
			h.viewport.ScrollUp(1)
			return false, nil
		case key.Matches(msg, h.keys.Down):
			h.viewport.ScrollDown(1)
			return false, nil
		case key.Matches(msg, h.keys.PageUp):
			h.viewport.HalfPageUp()
			return false, nil
		case key.Matches(msg, h.keys.PageDown):
			h.viewport.HalfPageDown()
			return false, nil
		case key.Matches(msg, h.keys.Help), key.Matches(msg, h.keys.Escape), key.Matches(msg, h.keys.Quit):
			return true, nil
		}
		var cmd tea.Cmd
		h.viewport, cmd = h.viewport.Update(msg)
		return false, cmd

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return false, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if h.ctx.ReverseScrollWheel {
				h.viewport.ScrollDown(1)
			} else {
				h.viewport.ScrollUp(1)
			}
		case tea.MouseButtonWheelDown:
			if h.ctx.ReverseScrollWheel {
				h.viewport.ScrollUp(1)
			} else {
				h.viewport.ScrollDown(1)
			}
		}
		return false, nil
	}
	return false, nil
}

func (h *HelpModal) View(width, height int) string {
	return renderModalFrame(&h.viewport, "Help", h.content(), []string{
		"up/down/Wheel: Scroll", "PgUp/PgDn: Page", "?/h: Toggle Help", "ESC: Close",
	}, width, height)
}

func (h *HelpModal) content() string {
	groups := []struct {
		title    string
		bindings []key.Binding
	}{
		{"READING", []key.Binding{h.keys.Up, h.keys.Down, h.keys.PageUp, h.keys.PageDown, h.keys.Home, h.keys.End}},
		{"SECTIONS", []key.Binding{h.keys.NextSection, h.keys.PrevSection, h.keys.Enter, h.keys.SwitchFocus}},
		{"GENERAL", []key.Binding{h.keys.ToggleSidebar, h.keys.Reload, h.keys.Help, h.keys.Quit, h.keys.ForceQuit}},
	}

	var b strings.Builder
	b.WriteString("Document Reader Help\n")
	for _, g := range groups {
		b.WriteString("\n" + g.title + ":\n")
		for _, kb := range g.bindings {
			help := kb.Help()
			fmt.Fprintf(&b, "  %-14s - %s\n", help.Key, help.Desc)
		}
	}
	b.WriteString(`
MOUSE:
  Wheel          - Scroll the document
  Click          - Jump to a section in the sidebar

SECTION TRACKING:
  The sidebar marks the section under the top of the reading band.
  After a jump the marker is held on the target until scrolling
  settles; the status line shows "settling" meanwhile.
`)

	return lipgloss.NewStyle().
		Width(65).
		Render(b.String())
}
