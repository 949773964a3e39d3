package model

import (
	"time"
)

// SessionModel tracks the current drawing duration, the accumulated drawing
// time and the number of sessions started since launch.
// Presenters poll Values() and update views. The zero value is ready to use.
type SessionModel struct {
	active      bool
	drawStart   time.Time
	lastSession time.Duration
	accumulated time.Duration
	sessions    int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick advances the model using whether a drawing is in progress at now.
func (m *SessionModel) OnTick(drawing bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case drawing && !m.active:
		m.active = true
		m.drawStart = now
		m.lastSession = 0
		m.sessions++
	case drawing:
		m.lastSession = now.Sub(m.drawStart)
	case m.active:
		m.lastSession = now.Sub(m.drawStart)
		m.accumulated += m.lastSession
		m.active = false
	}
}

// Values returns the current (or last) session duration and the total.
// The total includes the ongoing session.
func (m *SessionModel) Values() (session, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	session = m.lastSession
	total = m.accumulated
	if m.active {
		total += session
	}
	return
}

// Sessions reports how many drawing sessions were observed.
func (m *SessionModel) Sessions() int {
	if m == nil {
		return 0
	}
	return m.sessions
}
