package presenter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soocke/sawbot-go/domain/window"
)

type mockWindow struct {
	mode      window.Mode
	pinned    bool
	toggleErr error
	recorded  [][4]int
}

func (m *mockWindow) Mode() window.Mode { return m.mode }
func (m *mockWindow) Toggle(context.Context) (window.Mode, error) {
	if m.toggleErr != nil {
		return m.mode, m.toggleErr
	}
	if m.mode == window.ModeNormal {
		m.mode = window.ModeMini
	} else {
		m.mode = window.ModeNormal
	}
	return m.mode, nil
}
func (m *mockWindow) SetPinned(_ context.Context, on bool) error { m.pinned = on; return nil }
func (m *mockWindow) Pinned() bool                               { return m.pinned || m.mode == window.ModeMini }
func (m *mockWindow) RecordGeometry(w, h, x, y int) error {
	m.recorded = append(m.recorded, [4]int{w, h, x, y})
	return nil
}

type mockWindowView struct {
	modes  []window.Mode
	pinned []bool
	status []string
}

func (v *mockWindowView) SetMode(m window.Mode) { v.modes = append(v.modes, m) }
func (v *mockWindowView) SetPinned(b bool)      { v.pinned = append(v.pinned, b) }
func (v *mockWindowView) SetStatus(s string)    { v.status = append(v.status, s) }

func TestWindowPresenter_ToggleMini(t *testing.T) {
	mgr := &mockWindow{}
	view := &mockWindowView{}
	p := NewWindowPresenter(context.Background(), mgr, view)

	p.ToggleMini()
	if len(view.modes) != 1 || view.modes[0] != window.ModeMini || !view.pinned[0] {
		t.Fatalf("mini mode not reflected: modes=%v pinned=%v", view.modes, view.pinned)
	}
	mgr.toggleErr = errors.New("host refused")
	p.ToggleMini()
	if view.modes[1] != window.ModeMini || len(view.status) != 1 {
		t.Fatalf("failed toggle should keep mode and report: modes=%v status=%v", view.modes, view.status)
	}
}

func TestWindowPresenter_TogglePin(t *testing.T) {
	mgr := &mockWindow{}
	view := &mockWindowView{}
	p := NewWindowPresenter(context.Background(), mgr, view)
	p.TogglePin()
	p.TogglePin()
	if len(view.pinned) != 2 || !view.pinned[0] || view.pinned[1] {
		t.Fatalf("pin toggles wrong: %v", view.pinned)
	}
}

func TestWindowPresenter_GeometrySettles(t *testing.T) {
	mgr := &mockWindow{}
	p := NewWindowPresenter(context.Background(), mgr, &mockWindowView{})
	base := time.Unix(100, 0)

	p.OnConfigure(800, 600, 10, 10, base)
	p.OnConfigure(900, 600, 10, 10, base.Add(100*time.Millisecond))
	p.Tick(base.Add(300 * time.Millisecond))
	if len(mgr.recorded) != 0 {
		t.Fatalf("geometry persisted before settling")
	}
	p.Tick(base.Add(700 * time.Millisecond))
	if len(mgr.recorded) != 1 || mgr.recorded[0] != [4]int{900, 600, 10, 10} {
		t.Fatalf("expected latest settled geometry, got %v", mgr.recorded)
	}
	// Same geometry again is not rewritten.
	p.OnConfigure(900, 600, 10, 10, base.Add(time.Second))
	p.Tick(base.Add(2 * time.Second))
	if len(mgr.recorded) != 1 {
		t.Fatalf("unchanged geometry rewritten: %v", mgr.recorded)
	}
}

func TestWindowPresenter_GeometryIgnoredInMini(t *testing.T) {
	mgr := &mockWindow{mode: window.ModeMini}
	p := NewWindowPresenter(context.Background(), mgr, &mockWindowView{})
	base := time.Unix(0, 0)
	p.OnConfigure(300, 380, 0, 0, base)
	p.Tick(base.Add(time.Second))
	if len(mgr.recorded) != 0 {
		t.Fatalf("mini geometry must not be persisted")
	}
}
