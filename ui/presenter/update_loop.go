package presenter

import "time"

// Syncer reconciles a Tk surface with state set from other goroutines.
type Syncer interface{ Sync() }

// Loop aggregates feature presenters and drives periodic updates on the UI
// thread. The zero value is usable (methods are nil-safe).
type Loop struct {
	Queue     *Queue
	State     *StatePresenter
	Drawing   *DrawingPresenter
	Session   *SessionPresenter
	Selection *SelectionPresenter
	Window    *WindowPresenter
	Console   *ConsolePresenter
	Surfaces  []Syncer
	Schedule  func()
	Now       func() time.Time
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	// Posted callbacks first so presenters see their results this tick.
	l.Queue.Drain()
	for _, s := range l.Surfaces {
		if s != nil {
			s.Sync()
		}
	}
	l.State.Tick()
	l.Drawing.Tick()
	l.Session.Tick(now)
	l.Selection.Tick()
	l.Window.Tick(now)
	l.Console.Tick()
	if l.Schedule != nil {
		l.Schedule()
	}
}
