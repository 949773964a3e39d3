package selection

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/soocke/sawbot-go/domain/events"
	"github.com/soocke/sawbot-go/domain/geometry"
	"github.com/soocke/sawbot-go/domain/session"
)

// MinDrag is the exclusive per-side lower bound of an overlay drag.
const MinDrag = session.MinOverlaySelection

// Surface is the fullscreen transparent window the overlay draws on.
type Surface interface {
	Show() error
	Hide() error
	// Origin is the screen position of the surface's top-left corner.
	Origin() image.Point
	// DrawFeedback renders r, given relative to the surface origin.
	DrawFeedback(r geometry.Rect)
	ClearFeedback()
}

// Overlay is the live selection strategy. Pointer coordinates are absolute
// screen coordinates. A finalized rectangle is published as an area-selected
// event and the surface is hidden for reuse.
type Overlay struct {
	surface Surface
	bus     *events.Bus
	logger  *slog.Logger

	mu      sync.Mutex
	drag    Drag
	origin  image.Point
	visible bool
	end     func()
}

// NewOverlay returns the live strategy drawing on surface. Results are
// published on bus.
func NewOverlay(surface Surface, bus *events.Bus, logger *slog.Logger) *Overlay {
	return &Overlay{surface: surface, bus: bus, logger: logger}
}

// Kind reports KindOverlay.
func (o *Overlay) Kind() Kind { return KindOverlay }

// Open raises the surface unless ctx is already done.
func (o *Overlay) Open(ctx context.Context, end func()) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
	}
	if err := o.surface.Show(); err != nil {
		return fmt.Errorf("%w: overlay: %w", session.ErrSelectionTool, err)
	}
	o.visible = true
	o.drag.Cancel()
	o.origin = o.surface.Origin()
	o.end = end
	return nil
}

// Visible reports whether the surface is raised.
func (o *Overlay) Visible() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.visible
}

// PointerDown anchors a drag at abs, in screen coordinates. It is ignored
// while the overlay is hidden.
func (o *Overlay) PointerDown(abs image.Point) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.visible {
		return
	}
	o.origin = o.surface.Origin()
	o.drag.Down(abs)
}

// PointerMove redraws the feedback rectangle relative to the surface.
func (o *Overlay) PointerMove(abs image.Point) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if r, ok := o.drag.Move(abs); ok {
		o.surface.DrawFeedback(r.Translate(-o.origin.X, -o.origin.Y))
	}
}

// PointerUp finalizes the drag. A rectangle not larger than MinDrag on both
// sides cancels the gesture and leaves the overlay open.
func (o *Overlay) PointerUp(abs image.Point) (geometry.Rect, bool) {
	o.mu.Lock()
	r, ok := o.drag.Up(abs)
	if !ok {
		o.mu.Unlock()
		return geometry.Rect{}, false
	}
	o.surface.ClearFeedback()
	if !r.Larger(MinDrag) {
		o.mu.Unlock()
		if o.logger != nil {
			o.logger.Debug("overlay drag too small", "rect", r.String())
		}
		return geometry.Rect{}, false
	}
	end := o.dismissLocked()
	o.mu.Unlock()

	if o.bus != nil {
		o.bus.Publish(events.Event{Topic: events.TopicAreaSelected, Payload: events.AreaSelected{Rect: r}})
	}
	if end != nil {
		end()
	}
	return r, true
}

// Cancel aborts any drag and dismisses the overlay without a result.
func (o *Overlay) Cancel() {
	o.mu.Lock()
	if !o.visible {
		o.mu.Unlock()
		return
	}
	o.drag.Cancel()
	o.surface.ClearFeedback()
	end := o.dismissLocked()
	o.mu.Unlock()
	if end != nil {
		end()
	}
}

func (o *Overlay) dismissLocked() func() {
	if err := o.surface.Hide(); err != nil && o.logger != nil {
		o.logger.Warn("overlay hide failed", "error", err)
	}
	o.visible = false
	end := o.end
	o.end = nil
	return end
}
