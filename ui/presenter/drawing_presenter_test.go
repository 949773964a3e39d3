package presenter

import (
	"context"
	"errors"
	"testing"

	"github.com/soocke/sawbot-go/domain/session"
	"github.com/soocke/sawbot-go/ui/model"
)

type mockControl struct {
	m                *model.DrawingModel
	starts, stops    int
	startErr, stopErr error
}

func (c *mockControl) StartDrawing(context.Context) error {
	c.starts++
	if c.startErr == nil {
		c.m.SetState(session.StateDrawing)
	}
	return c.startErr
}

func (c *mockControl) StopDrawing(context.Context) error {
	c.stops++
	if c.stopErr == nil {
		c.m.SetState(session.StateIdle)
	}
	return c.stopErr
}

type mockDrawingView struct {
	editable, drawing []bool
	status            []string
}

func (v *mockDrawingView) SetInputsEditable(b bool) { v.editable = append(v.editable, b) }
func (v *mockDrawingView) SetDrawing(b bool)        { v.drawing = append(v.drawing, b) }
func (v *mockDrawingView) SetStatus(s string)       { v.status = append(v.status, s) }

func (v *mockDrawingView) lastStatus() string {
	if len(v.status) == 0 {
		return ""
	}
	return v.status[len(v.status)-1]
}

func newDrawingFixture() (*DrawingPresenter, *mockControl, *mockDrawingView, *Queue, *model.DrawingModel) {
	m := &model.DrawingModel{}
	ctrl := &mockControl{m: m}
	view := &mockDrawingView{}
	q := &Queue{}
	p := NewDrawingPresenter(context.Background(), m, ctrl, view, q, Inline)
	return p, ctrl, view, q, m
}

func TestDrawingPresenter_StartStop(t *testing.T) {
	p, ctrl, view, q, m := newDrawingFixture()

	p.Start()
	if ctrl.starts != 1 || !m.Drawing() || m.Busy() {
		t.Fatalf("start failed: starts=%d drawing=%v busy=%v", ctrl.starts, m.Drawing(), m.Busy())
	}
	q.Drain()
	if view.lastStatus() != "Drawing started" {
		t.Fatalf("unexpected status %q", view.lastStatus())
	}
	// Start while drawing is ignored.
	p.Start()
	if ctrl.starts != 1 {
		t.Fatalf("start while drawing should be ignored, starts=%d", ctrl.starts)
	}
	p.Tick()
	if len(view.drawing) != 1 || !view.drawing[0] || view.editable[0] {
		t.Fatalf("tick should disable inputs: drawing=%v editable=%v", view.drawing, view.editable)
	}
	p.Tick()
	if len(view.drawing) != 1 {
		t.Fatalf("tick without change should not touch the view")
	}

	p.Toggle()
	if ctrl.stops != 1 || m.Drawing() {
		t.Fatalf("toggle should stop: stops=%d drawing=%v", ctrl.stops, m.Drawing())
	}
	q.Drain()
	p.Tick()
	if view.lastStatus() != "Drawing stopped" || !view.editable[len(view.editable)-1] {
		t.Fatalf("stop not reflected: status=%q editable=%v", view.lastStatus(), view.editable)
	}
}

func TestDrawingPresenter_IgnoresWhileBusy(t *testing.T) {
	p, ctrl, _, _, m := newDrawingFixture()
	if !m.TryBusy() {
		t.Fatalf("expected to mark busy")
	}
	p.Start()
	if ctrl.starts != 0 {
		t.Fatalf("start while busy should be ignored")
	}
}

func TestDrawingPresenter_StartErrors(t *testing.T) {
	p, ctrl, view, q, m := newDrawingFixture()
	ctrl.startErr = session.ErrMissingInput
	p.Start()
	q.Drain()
	if m.Drawing() || m.Busy() || view.lastStatus() != session.ErrMissingInput.Error() {
		t.Fatalf("failed start not reported: drawing=%v busy=%v status=%q", m.Drawing(), m.Busy(), view.lastStatus())
	}

	ctrl.startErr = session.ErrInterrupted
	p.Start()
	q.Drain()
	if view.lastStatus() != "Start cancelled by emergency stop" {
		t.Fatalf("unexpected status %q", view.lastStatus())
	}
}

func TestDrawingPresenter_StopFailure(t *testing.T) {
	p, ctrl, view, q, m := newDrawingFixture()
	m.SetState(session.StateDrawing)
	ctrl.stopErr = errors.New("engine busy")
	p.Stop()
	q.Drain()
	if !m.Drawing() || view.lastStatus() != "Stop failed: engine busy" {
		t.Fatalf("stop failure not reported: drawing=%v status=%q", m.Drawing(), view.lastStatus())
	}
	// Stop when idle does nothing.
	m.SetState(session.StateIdle)
	p.Stop()
	if ctrl.stops != 1 {
		t.Fatalf("stop while idle should be ignored, stops=%d", ctrl.stops)
	}
}
