package presenter

import (
	"context"
	"errors"

	"github.com/soocke/sawbot-go/domain/session"
	"github.com/soocke/sawbot-go/ui/model"
)

// SessionControl is the subset of the controller used to start and stop drawings.
type SessionControl interface {
	StartDrawing(ctx context.Context) error
	StopDrawing(ctx context.Context) error
}

// DrawingView reflects drawing availability in the view.
type DrawingView interface {
	SetInputsEditable(enabled bool)
	SetDrawing(drawing bool)
	SetStatus(text string)
}

// DrawingPresenter issues start/stop requests off the UI thread and reflects
// the outcome once the loop drains the queue. Repeated clicks while a request
// is in flight are ignored.
type DrawingPresenter struct {
	ctx   context.Context
	model *model.DrawingModel
	ctrl  SessionControl
	view  DrawingView
	queue *Queue
	run   Runner

	shown   bool
	drawing bool
}

func NewDrawingPresenter(ctx context.Context, m *model.DrawingModel, ctrl SessionControl, view DrawingView, queue *Queue, run Runner) *DrawingPresenter {
	if run == nil {
		run = Background(nil)
	}
	return &DrawingPresenter{ctx: ctx, model: m, ctrl: ctrl, view: view, queue: queue, run: run}
}

// Start requests a new drawing session.
func (p *DrawingPresenter) Start() {
	if p == nil || p.model == nil || p.ctrl == nil {
		return
	}
	if p.model.Drawing() || !p.model.TryBusy() {
		return
	}
	p.run(func() {
		err := p.ctrl.StartDrawing(p.ctx)
		p.model.Idle()
		p.queue.Post(func() { p.status(startMessage(err)) })
	})
}

// Stop requests the active session to end.
func (p *DrawingPresenter) Stop() {
	if p == nil || p.model == nil || p.ctrl == nil {
		return
	}
	if !p.model.Drawing() || !p.model.TryBusy() {
		return
	}
	p.run(func() {
		err := p.ctrl.StopDrawing(p.ctx)
		p.model.Idle()
		msg := "Drawing stopped"
		if err != nil {
			msg = "Stop failed: " + err.Error()
		}
		p.queue.Post(func() { p.status(msg) })
	})
}

// Toggle starts when idle and stops when drawing.
func (p *DrawingPresenter) Toggle() {
	if p == nil || p.model == nil {
		return
	}
	if p.model.Drawing() {
		p.Stop()
		return
	}
	p.Start()
}

// Tick pushes drawing availability to the view when it changed.
func (p *DrawingPresenter) Tick() {
	if p == nil || p.model == nil || p.view == nil {
		return
	}
	drawing := p.model.Drawing()
	if p.shown && drawing == p.drawing {
		return
	}
	p.shown, p.drawing = true, drawing
	p.view.SetDrawing(drawing)
	p.view.SetInputsEditable(!drawing)
}

func (p *DrawingPresenter) status(msg string) {
	if p.view != nil {
		p.view.SetStatus(msg)
	}
}

func startMessage(err error) string {
	switch {
	case err == nil:
		return "Drawing started"
	case errors.Is(err, session.ErrInterrupted):
		return "Start cancelled by emergency stop"
	case errors.Is(err, session.ErrSessionActive):
		return "A drawing is already in progress"
	default:
		return err.Error()
	}
}
