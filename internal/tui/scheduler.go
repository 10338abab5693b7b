package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/scrollspy/internal/scrollspy"
)

// timerFiredMsg is delivered by tea.Tick when a scheduled timer is due.
type timerFiredMsg struct {
	owner *TeaScheduler
	id    uint64
}

// TeaScheduler runs coordinator timers through the Bubble Tea event loop, so
// expiries reach Update like any other message. tea.Tick cannot be cancelled;
// a stopped timer is forgotten and its tick is ignored on arrival.
type TeaScheduler struct {
	next    uint64
	timers  map[uint64]func()
	pending []tea.Cmd
}

// NewTeaScheduler returns an empty scheduler.
func NewTeaScheduler() *TeaScheduler {
	return &TeaScheduler{timers: map[uint64]func(){}}
}

// AfterFunc implements scrollspy.Scheduler. The tick command is queued until
// the next Drain.
func (s *TeaScheduler) AfterFunc(d time.Duration, f func()) scrollspy.Timer {
	s.next++
	id := s.next
	s.timers[id] = f
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return timerFiredMsg{owner: s, id: id}
	}))
	return &teaTimer{s: s, id: id}
}

// Drain returns the tick commands queued since the last call.
func (s *TeaScheduler) Drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

// Pending reports how many timers are armed.
func (s *TeaScheduler) Pending() int { return len(s.timers) }

// handle runs the timer for msg if it belongs to s and is still armed.
func (s *TeaScheduler) handle(msg timerFiredMsg) bool {
	if msg.owner != s {
		return false
	}
	f, ok := s.timers[msg.id]
	if !ok {
		return true
	}
	delete(s.timers, msg.id)
	f()
	return true
}

type teaTimer struct {
	s  *TeaScheduler
	id uint64
}

func (t *teaTimer) Stop() bool {
	if _, ok := t.s.timers[t.id]; !ok {
		return false
	}
	delete(t.s.timers, t.id)
	return true
}
