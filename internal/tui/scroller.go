package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// frameInterval is the delay between smooth scroll frames.
const frameInterval = 16 * time.Millisecond

type scrollFrameMsg struct {
	owner *SmoothScroller
	seq   uint64
}

// SmoothScroller moves the content viewport. Smooth requests are animated
// over a fixed number of frames; every offset change is reported through
// onMove so the visibility band follows the viewport.
type SmoothScroller struct {
	vp     *viewport.Model
	frames int
	onMove func(offset, height int)

	seq       uint64
	animating bool
	from      int
	to        int
	frame     int
	pending   []tea.Cmd
}

// NewSmoothScroller drives vp. frames <= 1 makes every scroll instant.
func NewSmoothScroller(vp *viewport.Model, frames int, onMove func(offset, height int)) *SmoothScroller {
	return &SmoothScroller{vp: vp, frames: frames, onMove: onMove}
}

// ScrollTo implements scrollspy.Scroller.
func (s *SmoothScroller) ScrollTo(offset int, smooth bool) {
	s.seq++
	s.animating = false
	if !smooth || s.frames <= 1 {
		s.set(offset)
		return
	}
	s.from = s.vp.YOffset
	s.to = s.clamp(offset)
	s.frame = 0
	if s.from == s.to {
		s.sync()
		return
	}
	s.animating = true
	s.pending = append(s.pending, s.tick())
}

// Jump moves by delta rows at once, cancelling any animation.
func (s *SmoothScroller) Jump(delta int) {
	s.seq++
	s.animating = false
	s.set(s.vp.YOffset + delta)
}

// JumpTo moves to offset at once, cancelling any animation.
func (s *SmoothScroller) JumpTo(offset int) {
	s.seq++
	s.animating = false
	s.set(offset)
}

// Animating reports whether a smooth scroll is in flight.
func (s *SmoothScroller) Animating() bool { return s.animating }

// Drain returns the frame commands queued since the last call.
func (s *SmoothScroller) Drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

// Sync reports the current offset without moving.
func (s *SmoothScroller) Sync() { s.sync() }

func (s *SmoothScroller) handle(msg scrollFrameMsg) (bool, tea.Cmd) {
	if msg.owner != s {
		return false, nil
	}
	if msg.seq != s.seq {
		return true, nil
	}
	s.frame++
	if s.frame >= s.frames {
		s.animating = false
		s.set(s.to)
		return true, nil
	}
	s.set(s.from + (s.to-s.from)*easeOut(s.frame, s.frames)/1000)
	return true, s.tick()
}

func (s *SmoothScroller) tick() tea.Cmd {
	seq := s.seq
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return scrollFrameMsg{owner: s, seq: seq}
	})
}

func (s *SmoothScroller) clamp(offset int) int {
	maxOffset := max(0, s.vp.TotalLineCount()-s.vp.Height)
	return min(max(offset, 0), maxOffset)
}

func (s *SmoothScroller) set(offset int) {
	s.vp.SetYOffset(s.clamp(offset))
	s.sync()
}

func (s *SmoothScroller) sync() {
	if s.onMove != nil {
		s.onMove(s.vp.YOffset, s.vp.Height)
	}
}

// easeOut returns progress in thousandths for frame of n.
func easeOut(frame, n int) int {
	rem := n - frame
	return 1000 - 1000*rem*rem/(n*n)
}
