package presenter

import (
	"context"
	"time"

	"github.com/soocke/sawbot-go/domain/window"
)

// GeometrySettle is how long the window must stay put before its geometry
// is persisted.
const GeometrySettle = 500 * time.Millisecond

// WindowControl is the subset of window.Manager driven by the view.
type WindowControl interface {
	Mode() window.Mode
	Toggle(ctx context.Context) (window.Mode, error)
	SetPinned(ctx context.Context, on bool) error
	Pinned() bool
	RecordGeometry(width, height, x, y int) error
}

// WindowView reflects window mode and pin state.
type WindowView interface {
	SetMode(mode window.Mode)
	SetPinned(on bool)
	SetStatus(text string)
}

type geometrySample struct {
	w, h, x, y int
	at         time.Time
}

// WindowPresenter runs window-mode commands on the UI thread and persists
// geometry once the user stops moving or resizing the window.
type WindowPresenter struct {
	ctx  context.Context
	mgr  WindowControl
	view WindowView

	pending *geometrySample
	last    geometrySample
}

func NewWindowPresenter(ctx context.Context, mgr WindowControl, view WindowView) *WindowPresenter {
	return &WindowPresenter{ctx: ctx, mgr: mgr, view: view}
}

// ToggleMini switches between normal and mini mode.
func (p *WindowPresenter) ToggleMini() {
	if p == nil || p.mgr == nil || p.view == nil {
		return
	}
	mode, err := p.mgr.Toggle(p.ctx)
	if err != nil {
		p.view.SetStatus("Window mode change failed: " + err.Error())
	}
	p.view.SetMode(mode)
	p.view.SetPinned(p.mgr.Pinned())
	p.pending = nil
}

// TogglePin flips always-on-top in normal mode.
func (p *WindowPresenter) TogglePin() {
	if p == nil || p.mgr == nil || p.view == nil {
		return
	}
	if err := p.mgr.SetPinned(p.ctx, !p.mgr.Pinned()); err != nil {
		p.view.SetStatus("Pin failed: " + err.Error())
	}
	p.view.SetPinned(p.mgr.Pinned())
}

// OnConfigure records a geometry sample from the window system.
func (p *WindowPresenter) OnConfigure(w, h, x, y int, now time.Time) {
	if p == nil || w <= 0 || h <= 0 {
		return
	}
	s := geometrySample{w: w, h: h, x: x, y: y, at: now}
	if p.pending == nil && s.w == p.last.w && s.h == p.last.h && s.x == p.last.x && s.y == p.last.y {
		return
	}
	p.pending = &s
}

// Tick persists the pending geometry once it has settled.
func (p *WindowPresenter) Tick(now time.Time) {
	if p == nil || p.mgr == nil || p.pending == nil {
		return
	}
	if now.Sub(p.pending.at) < GeometrySettle {
		return
	}
	s := *p.pending
	p.pending = nil
	p.last = s
	if p.mgr.Mode() != window.ModeNormal {
		return
	}
	if err := p.mgr.RecordGeometry(s.w, s.h, s.x, s.y); err != nil && p.view != nil {
		p.view.SetStatus("Saving window geometry failed: " + err.Error())
	}
}
