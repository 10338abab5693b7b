package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/scrollspy/internal/model"
)

func TestRemote(t *testing.T) {
	t.Parallel()

	r := NewRemote()
	r.Publish(model.Snapshot{Sections: []model.Section{{ID: "usage"}}})

	if err := r.Navigate("usage"); !errors.Is(err, model.ErrUnavailable) {
		t.Fatalf("navigate before attach: %v", err)
	}

	var sent []tea.Msg
	r.Attach(func(msg tea.Msg) { sent = append(sent, msg) })

	if err := r.Navigate("missing"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("navigate missing: %v", err)
	}
	if err := r.Suppress(-time.Second); !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("negative suppress: %v", err)
	}
	if err := r.Navigate("usage"); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if err := r.Suppress(0); err != nil {
		t.Fatalf("suppress: %v", err)
	}

	if len(sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sent))
	}
	if nav, ok := sent[0].(NavigateMsg); !ok || nav.ID != "usage" {
		t.Fatalf("first message = %#v", sent[0])
	}
	if _, ok := sent[1].(SuppressMsg); !ok {
		t.Fatalf("second message = %#v", sent[1])
	}
}
