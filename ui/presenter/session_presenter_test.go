package presenter

import (
	"testing"
	"time"

	"github.com/soocke/sawbot-go/ui/model"
)

type stubDrawing struct{ on bool }

func (s *stubDrawing) Drawing() bool { return s.on }

type mockSessionView struct {
	session, total time.Duration
	count          int
	calls          int
}

func (v *mockSessionView) SetSession(s, t time.Duration, n int) {
	v.session, v.total, v.count = s, t, n
	v.calls++
}

func TestSessionPresenter_Tick(t *testing.T) {
	status := &stubDrawing{}
	view := &mockSessionView{}
	p := NewSessionPresenter(model.NewSessionModel(), status, view)
	base := time.Unix(1000, 0)

	p.Tick(base)
	if view.calls != 1 || view.count != 0 || view.total != 0 {
		t.Fatalf("idle tick: %+v", view)
	}

	status.on = true
	p.Tick(base.Add(time.Second))
	p.Tick(base.Add(4 * time.Second))
	if view.session != 3*time.Second || view.count != 1 {
		t.Fatalf("drawing tick: %+v", view)
	}

	status.on = false
	p.Tick(base.Add(5 * time.Second))
	if view.session != 4*time.Second || view.total != 4*time.Second {
		t.Fatalf("after stop: %+v", view)
	}
}

func TestSessionPresenter_NilSafe(t *testing.T) {
	var p *SessionPresenter
	p.Tick(time.Now())
	NewSessionPresenter(nil, nil, nil).Tick(time.Now())
}
