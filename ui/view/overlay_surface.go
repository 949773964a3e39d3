package view

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/soocke/sawbot-go/domain/geometry"
	"github.com/soocke/sawbot-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

var errNoScreen = errors.New("screen bounds unavailable")

// OverlayInput is the pointer side of the live selection strategy.
type OverlayInput interface {
	PointerDown(abs image.Point)
	PointerMove(abs image.Point)
	PointerUp(abs image.Point) (geometry.Rect, bool)
}

// OverlaySurface is a dimmed, always-on-top window covering the virtual
// screen. Show, Hide and the feedback calls may come from any goroutine;
// they record the wanted state and Sync applies it on the Tk thread.
type OverlaySurface struct {
	bounds func() image.Rectangle
	logger *slog.Logger

	input    OverlayInput
	onCancel func()

	mu       sync.Mutex
	want     bool
	area     image.Rectangle
	feedback geometry.Rect
	dirty    bool

	win   *ToplevelWidget
	band  *band
	shown bool
}

// NewOverlaySurface returns a surface sized from bounds on every Show.
func NewOverlaySurface(bounds func() image.Rectangle, logger *slog.Logger) *OverlaySurface {
	return &OverlaySurface{bounds: bounds, logger: logger}
}

// Attach wires pointer input and the Escape / right-click cancel.
func (s *OverlaySurface) Attach(input OverlayInput, onCancel func()) {
	s.input, s.onCancel = input, onCancel
}

func (s *OverlaySurface) Show() error {
	area := s.bounds()
	if area.Empty() {
		return errNoScreen
	}
	s.mu.Lock()
	s.want, s.area = true, area
	s.feedback, s.dirty = geometry.Rect{}, true
	s.mu.Unlock()
	return nil
}

func (s *OverlaySurface) Hide() error {
	s.mu.Lock()
	s.want = false
	s.mu.Unlock()
	return nil
}

func (s *OverlaySurface) Origin() image.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.area.Min
}

func (s *OverlaySurface) DrawFeedback(r geometry.Rect) {
	s.mu.Lock()
	s.feedback, s.dirty = r, true
	s.mu.Unlock()
}

func (s *OverlaySurface) ClearFeedback() { s.DrawFeedback(geometry.Rect{}) }

// Sync shows, updates or withdraws the Tk window to match the wanted state.
// The window is built once and withdrawn between selections.
func (s *OverlaySurface) Sync() {
	s.mu.Lock()
	want, area, fb, dirty := s.want, s.area, s.feedback, s.dirty
	s.dirty = false
	s.mu.Unlock()

	switch {
	case want && s.win == nil:
		s.build(area)
		s.shown = true
	case want && !s.shown:
		s.place(area)
		WmDeiconify(s.win.Window)
		WmAttributes(s.win.Window, "-topmost", 1)
		Focus(s.win.Window)
		s.shown = true
	case !want && s.shown:
		s.band.hide()
		WmWithdraw(s.win.Window)
		s.shown = false
		return
	}
	if s.shown && dirty {
		s.band.show(fb)
	}
}

func (s *OverlaySurface) place(area image.Rectangle) {
	WmGeometry(s.win.Window, fmt.Sprintf("%dx%d+%d+%d", area.Dx(), area.Dy(), area.Min.X, area.Min.Y))
}

func (s *OverlaySurface) build(area image.Rectangle) {
	p := theme.Current()
	win := App.Toplevel(Background("#000000"), Cursor("crosshair"), Borderwidth(0))
	win.WmTitle("Select area")
	s.win = win
	s.place(area)
	WmAttributes(win.Window, "-topmost", 1)
	WmAttributes(win.Window, "-alpha", 0.35)
	s.band = newBand(win, p.Selection)

	abs := func(local image.Point) image.Point { return local.Add(s.Origin()) }
	bindPointer(win.Window, "<ButtonPress-1>", func(l image.Point) {
		if s.input != nil {
			s.input.PointerDown(abs(l))
		}
	})
	bindPointer(win.Window, "<B1-Motion>", func(l image.Point) {
		if s.input != nil {
			s.input.PointerMove(abs(l))
			s.Sync()
		}
	})
	bindPointer(win.Window, "<ButtonRelease-1>", func(l image.Point) {
		if s.input == nil {
			return
		}
		if r, ok := s.input.PointerUp(abs(l)); ok && s.logger != nil {
			s.logger.Debug("overlay selection", "rect", r.String())
		}
		s.Sync()
	})
	cancel := Command(func() {
		if s.onCancel != nil {
			s.onCancel()
		}
		s.Sync()
	})
	Bind(win.Window, "<Escape>", cancel)
	Bind(win.Window, "<ButtonPress-3>", cancel)
	Focus(win.Window)
}
