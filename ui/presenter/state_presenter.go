package presenter

import (
	"sync"

	"github.com/soocke/sawbot-go/domain/session"
)

// StateView sets the state label in the view.
type StateView interface{ SetStateLabel(string) }

// StatePresenter receives controller transitions on any goroutine and
// reflects the latest one on the next Tick.
type StatePresenter struct {
	view StateView

	mu      sync.Mutex
	pending []session.State

	latest    session.State
	shown     bool
	emergency bool
}

func NewStatePresenter(view StateView) *StatePresenter {
	return &StatePresenter{view: view}
}

// OnTransition matches session.StateListener.
func (p *StatePresenter) OnTransition(_, next session.State) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, next)
	p.mu.Unlock()
}

// Tick flushes queued transitions. An emergency stop seen in the batch is
// kept visible on the label until the next drawing starts.
func (p *StatePresenter) Tick() {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()
	if len(pending) == 0 {
		if !p.shown {
			p.shown = true
			p.view.SetStateLabel(stateLabel(p.latest, false))
		}
		return
	}
	for _, s := range pending {
		switch s {
		case session.StateEmergencyStopped:
			p.emergency = true
		case session.StateDrawing:
			p.emergency = false
		}
	}
	p.latest = pending[len(pending)-1]
	p.shown = true
	p.view.SetStateLabel(stateLabel(p.latest, p.emergency))
}

func stateLabel(s session.State, emergency bool) string {
	label := "State: " + s.String()
	if emergency && s == session.StateIdle {
		label += " (emergency stop)"
	}
	return label
}
