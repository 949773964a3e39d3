package presenter

import (
	"testing"

	"github.com/soocke/sawbot-go/domain/session"
)

type mockStateView struct{ labels []string }

func (v *mockStateView) SetStateLabel(s string) { v.labels = append(v.labels, s) }

func TestStatePresenter_ShowsLatest(t *testing.T) {
	view := &mockStateView{}
	p := NewStatePresenter(view)

	p.Tick()
	if len(view.labels) != 1 || view.labels[0] != "State: idle" {
		t.Fatalf("initial label wrong: %v", view.labels)
	}
	p.Tick()
	if len(view.labels) != 1 {
		t.Fatalf("tick without transitions should not relabel")
	}

	p.OnTransition(session.StateIdle, session.StateDrawing)
	p.Tick()
	if got := view.labels[len(view.labels)-1]; got != "State: drawing" {
		t.Fatalf("got %q", got)
	}
}

func TestStatePresenter_EmergencyBatch(t *testing.T) {
	view := &mockStateView{}
	p := NewStatePresenter(view)

	p.OnTransition(session.StateIdle, session.StateDrawing)
	p.OnTransition(session.StateDrawing, session.StateEmergencyStopped)
	p.OnTransition(session.StateEmergencyStopped, session.StateIdle)
	p.Tick()
	if got := view.labels[len(view.labels)-1]; got != "State: idle (emergency stop)" {
		t.Fatalf("got %q", got)
	}

	p.OnTransition(session.StateIdle, session.StateDrawing)
	p.OnTransition(session.StateDrawing, session.StateIdle)
	p.Tick()
	if got := view.labels[len(view.labels)-1]; got != "State: idle" {
		t.Fatalf("emergency marker should clear on the next drawing, got %q", got)
	}
}
