package tui

import (
	"testing"
	"time"
)

func TestTeaScheduler_StopForgetsTimer(t *testing.T) {
	t.Parallel()

	s := NewTeaScheduler()
	fired := 0
	timer := s.AfterFunc(time.Second, func() { fired++ })
	if s.Drain() == nil {
		t.Fatal("expected a queued tick")
	}
	if s.Drain() != nil {
		t.Fatal("drain should empty the queue")
	}

	if !timer.Stop() {
		t.Fatal("first stop should report true")
	}
	if timer.Stop() {
		t.Fatal("second stop should report false")
	}
	if !s.handle(timerFiredMsg{owner: s, id: 1}) {
		t.Fatal("own message should be handled")
	}
	if fired != 0 {
		t.Fatalf("fired = %d after stop", fired)
	}
}

func TestTeaScheduler_FiresOnceAndIgnoresOtherOwners(t *testing.T) {
	t.Parallel()

	a, b := NewTeaScheduler(), NewTeaScheduler()
	fired := 0
	a.AfterFunc(time.Millisecond, func() { fired++ })

	if b.handle(timerFiredMsg{owner: a, id: 1}) {
		t.Fatal("scheduler handled a foreign timer")
	}
	a.handle(timerFiredMsg{owner: a, id: 1})
	a.handle(timerFiredMsg{owner: a, id: 1})
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	if a.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", a.Pending())
	}
}
