package model

import (
	"testing"
	"time"
)

func TestSessionModel_Lifecycle(t *testing.T) {
	m := NewSessionModel()
	base := time.Unix(0, 0)

	m.OnTick(true, base)
	m.OnTick(true, base.Add(5*time.Second))
	session, total := m.Values()
	if session != 5*time.Second || total != 5*time.Second {
		t.Fatalf("expected 5s session & total; got session=%v total=%v", session, total)
	}

	m.OnTick(false, base.Add(6*time.Second))
	session, total = m.Values()
	if session != 6*time.Second || total != 6*time.Second {
		t.Fatalf("after stop expected 6s; got session=%v total=%v", session, total)
	}

	// idle ticks leave values alone
	m.OnTick(false, base.Add(9*time.Second))
	if s, tt := m.Values(); s != session || tt != total {
		t.Fatalf("idle tick changed durations: session=%v total=%v", s, tt)
	}

	m.OnTick(true, base.Add(10*time.Second))
	if s, _ := m.Values(); s != 0 {
		t.Fatalf("new session should start at zero, got %v", s)
	}
	m.OnTick(true, base.Add(13*time.Second))
	s, tt := m.Values()
	if s != 3*time.Second || tt != 9*time.Second {
		t.Fatalf("second session expected 3s/9s, got %v/%v", s, tt)
	}
	if m.Sessions() != 2 {
		t.Fatalf("expected 2 sessions, got %d", m.Sessions())
	}
}

func TestSessionModel_NilSafe(t *testing.T) {
	var m *SessionModel
	m.OnTick(true, time.Now())
	if s, tt := m.Values(); s != 0 || tt != 0 || m.Sessions() != 0 {
		t.Fatalf("nil model should report zeros")
	}
}
