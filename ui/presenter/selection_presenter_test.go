package presenter

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/soocke/sawbot-go/domain/geometry"
	"github.com/soocke/sawbot-go/domain/selection"
)

type mockTools struct {
	begun    []selection.Kind
	err      error
	canceled int
}

func (m *mockTools) Begin(_ context.Context, k selection.Kind) error {
	m.begun = append(m.begun, k)
	return m.err
}

func (m *mockTools) CancelActive() bool { m.canceled++; return true }

type mockCorners struct {
	sel      geometry.ManualSelection
	captured []geometry.Corner
	err      error
}

func (m *mockCorners) Selection() geometry.ManualSelection   { return m.sel }
func (m *mockCorners) SetCorners(s geometry.ManualSelection) { m.sel = s }
func (m *mockCorners) CaptureCorner(_ context.Context, c geometry.Corner) error {
	m.captured = append(m.captured, c)
	return m.err
}

type mockSelectionView struct {
	corners []geometry.ManualSelection
	status  []string
}

func (v *mockSelectionView) SetCorners(s geometry.ManualSelection) { v.corners = append(v.corners, s) }
func (v *mockSelectionView) SetStatus(s string)                    { v.status = append(v.status, s) }

func TestSelectionPresenter_MirrorsCorners(t *testing.T) {
	ctrl := &mockCorners{}
	view := &mockSelectionView{}
	p := NewSelectionPresenter(context.Background(), &mockTools{}, ctrl, view, &Queue{}, Inline)

	p.Tick()
	p.Tick()
	if len(view.corners) != 1 {
		t.Fatalf("expected one initial render, got %d", len(view.corners))
	}
	// An area-selected result changes the controller behind the presenter's back.
	ctrl.sel = geometry.ManualSelection{X1: 100, Y1: 100, X2: 150, Y2: 150}
	p.Tick()
	if len(view.corners) != 2 || view.corners[1] != ctrl.sel {
		t.Fatalf("selection change not mirrored: %+v", view.corners)
	}
	// Typed edits are not echoed back into the fields.
	p.EditCorners(geometry.ManualSelection{X1: 1, Y1: 2, X2: 3, Y2: 4})
	p.Tick()
	if len(view.corners) != 2 {
		t.Fatalf("typed corners should not be re-rendered")
	}
}

func TestSelectionPresenter_BeginFailureReported(t *testing.T) {
	tools := &mockTools{err: errors.New("no display")}
	view := &mockSelectionView{}
	q := &Queue{}
	p := NewSelectionPresenter(context.Background(), tools, &mockCorners{}, view, q, Inline)

	p.Begin(selection.KindSnapshot)
	if len(tools.begun) != 1 || tools.begun[0] != selection.KindSnapshot {
		t.Fatalf("begin not forwarded: %v", tools.begun)
	}
	if len(view.status) != 0 {
		t.Fatalf("status must wait for the UI thread")
	}
	q.Drain()
	if len(view.status) != 1 || view.status[0] != "snapshot selection unavailable: no display" {
		t.Fatalf("unexpected status %v", view.status)
	}
	if !p.Cancel() || tools.canceled != 1 {
		t.Fatalf("cancel not forwarded")
	}
}

func TestSelectionPresenter_CaptureCorner(t *testing.T) {
	ctrl := &mockCorners{err: errors.New("offline")}
	view := &mockSelectionView{}
	q := &Queue{}
	p := NewSelectionPresenter(context.Background(), &mockTools{}, ctrl, view, q, Inline)
	p.CaptureCorner(geometry.CornerEnd)
	q.Drain()
	if len(ctrl.captured) != 1 || ctrl.captured[0] != geometry.CornerEnd || len(view.status) != 1 {
		t.Fatalf("capture corner not handled: captured=%v status=%v", ctrl.captured, view.status)
	}
}

func TestSelectionPresenter_CancelledBeginIsNotAFailure(t *testing.T) {
	tools := &mockTools{err: fmt.Errorf("%w: %w", selection.ErrCancelled, context.Canceled)}
	view := &mockSelectionView{}
	q := &Queue{}
	p := NewSelectionPresenter(context.Background(), tools, &mockCorners{}, view, q, Inline)

	p.Begin(selection.KindSnapshot)
	q.Drain()
	if len(view.status) != 1 || view.status[0] != "Selection cancelled" {
		t.Fatalf("unexpected status: %v", view.status)
	}
}
