package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyPress routes a key to the open modal, then to global and pane keys.
func (p *ReaderPage) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, p.keys.ForceQuit) {
		return p.quit()
	}

	// Modal on stack gets the event first.
	if modal := p.TopModal(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			p.PopModal()
		}
		return cmd
	}

	switch {
	case key.Matches(msg, p.keys.Quit):
		return p.quit()
	case key.Matches(msg, p.keys.Help):
		p.PushModal(NewHelpModal(ModalContext{ReverseScrollWheel: p.opts.ReverseScrollWheel}, p.keys))
		return nil
	case key.Matches(msg, p.keys.ToggleSidebar):
		p.sidebarVisible = !p.sidebarVisible
		if !p.sidebarVisible {
			p.focus = FocusContent
		}
		p.resize(p.width, p.height)
		return nil
	case key.Matches(msg, p.keys.SwitchFocus):
		if p.focus == FocusContent && p.sidebarVisible {
			p.focus = FocusSidebar
		} else {
			p.focus = FocusContent
		}
		return nil
	case key.Matches(msg, p.keys.Reload):
		return p.reloadCmd()
	case key.Matches(msg, p.keys.NextSection):
		p.navigateRelative(1)
		return nil
	case key.Matches(msg, p.keys.PrevSection):
		p.navigateRelative(-1)
		return nil
	case key.Matches(msg, p.keys.Enter):
		p.activateSidebarCursor()
		return nil
	}

	if p.focus == FocusSidebar {
		p.handleSidebarKeys(msg)
		return nil
	}
	p.handleContentKeys(msg)
	return nil
}

func (p *ReaderPage) handleSidebarKeys(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, p.keys.Up):
		p.moveSidebarCursor(-1)
	case key.Matches(msg, p.keys.Down):
		p.moveSidebarCursor(1)
	case key.Matches(msg, p.keys.Home):
		p.sidebarCursor = 0
	case key.Matches(msg, p.keys.End):
		p.sidebarCursor = len(p.nav) - 1
		p.clampSidebarCursor()
	}
}

func (p *ReaderPage) handleContentKeys(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, p.keys.Up):
		p.scroller.Jump(-1)
	case key.Matches(msg, p.keys.Down):
		p.scroller.Jump(1)
	case key.Matches(msg, p.keys.PageUp):
		p.scroller.Jump(-p.vp.Height)
	case key.Matches(msg, p.keys.PageDown):
		p.scroller.Jump(p.vp.Height)
	case key.Matches(msg, p.keys.Home):
		p.scroller.JumpTo(0)
	case key.Matches(msg, p.keys.End):
		p.scroller.JumpTo(p.vp.TotalLineCount())
	}
}

// handleMouseEvent processes wheel scrolling and sidebar clicks.
func (p *ReaderPage) handleMouseEvent(msg tea.MouseMsg) tea.Cmd {
	// Modal on stack gets the mouse event first.
	if modal := p.TopModal(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			p.PopModal()
		}
		return cmd
	}

	if msg.Action != tea.MouseActionPress {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		p.handleMouseClick(msg.X, msg.Y)

	case tea.MouseButtonWheelUp:
		// Wheel up scrolls toward the top, or down if reversed.
		if p.opts.ReverseScrollWheel {
			p.scroller.Jump(wheelRows)
		} else {
			p.scroller.Jump(-wheelRows)
		}

	case tea.MouseButtonWheelDown:
		if p.opts.ReverseScrollWheel {
			p.scroller.Jump(-wheelRows)
		} else {
			p.scroller.Jump(wheelRows)
		}
	}
	return nil
}

// handleMouseClick focuses the clicked pane and follows sidebar links.
func (p *ReaderPage) handleMouseClick(x, y int) {
	if p.width <= 0 || p.height <= 0 {
		return
	}
	if p.sidebarVisible && x < sidebarWidth {
		p.focus = FocusSidebar
		if idx, ok := p.sidebarCursorAtMouseRow(y); ok {
			p.sidebarCursor = idx
			p.activateSidebarCursor()
		}
		return
	}
	p.focus = FocusContent
}

func (p *ReaderPage) quit() tea.Cmd {
	p.Close()
	return tea.Quit
}
