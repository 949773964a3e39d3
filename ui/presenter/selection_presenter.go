package presenter

import (
	"context"
	"errors"

	"github.com/soocke/sawbot-go/domain/geometry"
	"github.com/soocke/sawbot-go/domain/selection"
)

// SelectionStarter opens and cancels the area-selection tools.
type SelectionStarter interface {
	Begin(ctx context.Context, kind selection.Kind) error
	CancelActive() bool
}

// CornerControl is the controller's manual-selection surface.
type CornerControl interface {
	Selection() geometry.ManualSelection
	SetCorners(sel geometry.ManualSelection)
	CaptureCorner(ctx context.Context, corner geometry.Corner) error
}

// SelectionView shows the manual corner fields.
type SelectionView interface {
	SetCorners(sel geometry.ManualSelection)
	SetStatus(text string)
}

// SelectionPresenter starts selection tools off the UI thread (a snapshot
// waits for a screen capture) and mirrors the controller's corners into the
// form fields.
type SelectionPresenter struct {
	ctx   context.Context
	tools SelectionStarter
	ctrl  CornerControl
	view  SelectionView
	queue *Queue
	run   Runner

	last  geometry.ManualSelection
	shown bool
}

func NewSelectionPresenter(ctx context.Context, tools SelectionStarter, ctrl CornerControl, view SelectionView, queue *Queue, run Runner) *SelectionPresenter {
	if run == nil {
		run = Background(nil)
	}
	return &SelectionPresenter{ctx: ctx, tools: tools, ctrl: ctrl, view: view, queue: queue, run: run}
}

// Begin opens the selection tool of the given kind.
func (p *SelectionPresenter) Begin(kind selection.Kind) {
	if p == nil || p.tools == nil {
		return
	}
	p.run(func() {
		err := p.tools.Begin(p.ctx, kind)
		if errors.Is(err, selection.ErrCancelled) {
			p.queue.Post(func() { p.status("Selection cancelled") })
			return
		}
		if err != nil {
			p.queue.Post(func() { p.status(kind.String() + " selection unavailable: " + err.Error()) })
		}
	})
}

// Cancel dismisses the active selection tool, if any.
func (p *SelectionPresenter) Cancel() bool {
	if p == nil || p.tools == nil {
		return false
	}
	return p.tools.CancelActive()
}

// EditCorners stores corners typed by the user.
func (p *SelectionPresenter) EditCorners(sel geometry.ManualSelection) {
	if p == nil || p.ctrl == nil {
		return
	}
	p.ctrl.SetCorners(sel)
	p.last, p.shown = sel, true
}

// CaptureCorner records the current pointer position as one corner.
func (p *SelectionPresenter) CaptureCorner(corner geometry.Corner) {
	if p == nil || p.ctrl == nil {
		return
	}
	p.run(func() {
		if err := p.ctrl.CaptureCorner(p.ctx, corner); err != nil {
			p.queue.Post(func() { p.status("Corner capture failed: " + err.Error()) })
		}
	})
}

// Tick refreshes the corner fields when the controller's selection changed.
func (p *SelectionPresenter) Tick() {
	if p == nil || p.ctrl == nil || p.view == nil {
		return
	}
	sel := p.ctrl.Selection()
	if p.shown && sel == p.last {
		return
	}
	p.last, p.shown = sel, true
	p.view.SetCorners(sel)
}

func (p *SelectionPresenter) status(msg string) {
	if p.view != nil {
		p.view.SetStatus(msg)
	}
}
