package tui

import tea "github.com/charmbracelet/bubbletea"

// Modal is a self-contained overlay that owns its own Update/View lifecycle.
// The topmost modal receives all input and renders full-screen.
type Modal interface {
	// ID returns a unique identifier used to deduplicate pushes.
	ID() string
	// Update processes a message. Return pop=true to close the modal.
	Update(msg tea.Msg) (pop bool, cmd tea.Cmd)
	// View renders the modal content for the given terminal dimensions.
	View(width, height int) string
}

// ModalContext provides read-only context to modals.
type ModalContext struct {
	ReverseScrollWheel bool
}

// ModalStackState holds the open modals, topmost last.
type ModalStackState struct {
	modalStack []Modal
}

// PushModal opens modal unless one with the same ID is already open.
func (s *ModalStackState) PushModal(modal Modal) {
	for _, existing := range s.modalStack {
		if existing.ID() == modal.ID() {
			return
		}
	}
	s.modalStack = append(s.modalStack, modal)
}

// PopModal removes the topmost modal from the stack.
func (s *ModalStackState) PopModal() {
	if len(s.modalStack) > 0 {
		s.modalStack = s.modalStack[:len(s.modalStack)-1]
	}
}

// TopModal returns the topmost modal, or nil if the stack is empty.
func (s *ModalStackState) TopModal() Modal {
	if len(s.modalStack) == 0 {
		return nil
	}
	return s.modalStack[len(s.modalStack)-1]
}

// HasModal returns true if any modal is on the stack.
func (s *ModalStackState) HasModal() bool {
	return len(s.modalStack) > 0
}
