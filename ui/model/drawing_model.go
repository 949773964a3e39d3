package model

import (
	"sync/atomic"

	"github.com/soocke/sawbot-go/domain/session"
)

// DrawingModel mirrors the controller state for the UI thread. Writers are
// controller listeners on arbitrary goroutines, so the value is atomic.
// The zero value reports idle.
type DrawingModel struct {
	state atomic.Int32
	busy  atomic.Bool
}

// State returns the mirrored session state.
func (m *DrawingModel) State() session.State { return session.State(m.state.Load()) }

func (m *DrawingModel) SetState(s session.State) { m.state.Store(int32(s)) }

// StateSource is the authoritative session state.
type StateSource interface{ State() session.State }

// Follow returns a listener that copies src's current state rather than the
// delivered one, so a late delivery cannot leave the model behind.
func (m *DrawingModel) Follow(src StateSource) session.StateListener {
	return func(_, _ session.State) { m.SetState(src.State()) }
}

// Drawing reports whether a session is in progress.
func (m *DrawingModel) Drawing() bool { return m.State() == session.StateDrawing }

// Busy reports whether a start or stop request is in flight.
func (m *DrawingModel) Busy() bool { return m.busy.Load() }

// TryBusy marks a request in flight. It returns false if one already is.
func (m *DrawingModel) TryBusy() bool { return m.busy.CompareAndSwap(false, true) }

func (m *DrawingModel) Idle() { m.busy.Store(false) }
