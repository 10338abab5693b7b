package tui

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/scrollspy/internal/model"
)

// NavigateMsg asks the reader to navigate to a section.
type NavigateMsg struct {
	ID string
}

// SuppressMsg asks the reader to mute passive activation for Duration.
type SuppressMsg struct {
	Duration time.Duration
}

// Remote lets other goroutines read reader state and send it commands. The
// reader publishes a snapshot after every update; commands travel as
// messages so the coordinator only ever runs on the UI goroutine.
type Remote struct {
	snap atomic.Pointer[model.Snapshot]

	mu   sync.Mutex
	send func(tea.Msg)
}

// NewRemote returns a remote with an empty snapshot and no program attached.
func NewRemote() *Remote {
	r := &Remote{}
	r.snap.Store(&model.Snapshot{})
	return r
}

// Attach sets the function used to deliver commands, usually Program.Send.
func (r *Remote) Attach(send func(tea.Msg)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.send = send
}

// Publish replaces the snapshot.
func (r *Remote) Publish(s model.Snapshot) {
	r.snap.Store(&s)
}

// Snapshot returns the last published state.
func (r *Remote) Snapshot() model.Snapshot {
	return *r.snap.Load()
}

// Navigate queues navigation to a section known to the last snapshot.
func (r *Remote) Navigate(id string) error {
	if !r.Snapshot().HasSection(id) {
		return fmt.Errorf("navigate to %q: %w", id, model.ErrNotFound)
	}
	return r.deliver(NavigateMsg{ID: id})
}

// Suppress queues a suppression window. Zero lifts suppression.
func (r *Remote) Suppress(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("suppress for %s: negative duration: %w", d, model.ErrInvalidArgument)
	}
	return r.deliver(SuppressMsg{Duration: d})
}

func (r *Remote) deliver(msg tea.Msg) error {
	r.mu.Lock()
	send := r.send
	r.mu.Unlock()
	if send == nil {
		return model.ErrUnavailable
	}
	send(msg)
	return nil
}
