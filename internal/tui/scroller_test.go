package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/viewport"
)

func newTestViewport(lines int) *viewport.Model {
	vp := viewport.New(40, 10)
	vp.SetContent(strings.Repeat("row\n", lines-1) + "row")
	return &vp
}

func TestSmoothScroller_AnimatesToTarget(t *testing.T) {
	t.Parallel()

	vp := newTestViewport(100)
	var offsets []int
	s := NewSmoothScroller(vp, 4, func(offset, _ int) { offsets = append(offsets, offset) })

	s.ScrollTo(40, true)
	if !s.Animating() || s.Drain() == nil {
		t.Fatal("expected an animation with a queued frame")
	}
	for s.Animating() {
		s.handle(scrollFrameMsg{owner: s, seq: s.seq})
	}

	if vp.YOffset != 40 {
		t.Fatalf("offset = %d, want 40", vp.YOffset)
	}
	if len(offsets) != 4 {
		t.Fatalf("reported %d offsets, want one per frame", len(offsets))
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			t.Fatalf("offsets not monotonic: %v", offsets)
		}
	}
}

func TestSmoothScroller_InstantAndClamped(t *testing.T) {
	t.Parallel()

	vp := newTestViewport(30)
	s := NewSmoothScroller(vp, 4, nil)

	s.ScrollTo(500, false)
	if vp.YOffset != 20 {
		t.Fatalf("offset = %d, want clamped to 20", vp.YOffset)
	}
	if s.Drain() != nil {
		t.Fatal("instant scroll should not queue frames")
	}
	s.JumpTo(-5)
	if vp.YOffset != 0 {
		t.Fatalf("offset = %d, want 0", vp.YOffset)
	}
}

func TestSmoothScroller_ManualScrollCancelsAnimation(t *testing.T) {
	t.Parallel()

	vp := newTestViewport(100)
	s := NewSmoothScroller(vp, 4, nil)

	s.ScrollTo(60, true)
	stale := scrollFrameMsg{owner: s, seq: s.seq}
	s.Jump(3)

	handled, cmd := s.handle(stale)
	if !handled || cmd != nil {
		t.Fatalf("stale frame: handled=%v cmd=%v", handled, cmd != nil)
	}
	if vp.YOffset != 3 || s.Animating() {
		t.Fatalf("offset = %d animating = %v, want 3/false", vp.YOffset, s.Animating())
	}
}
