package view

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/soocke/sawbot-go/config"
	"github.com/soocke/sawbot-go/domain/geometry"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// WindowHost performs window.Host operations on the Tk root window. All
// methods must run on the Tk thread.
type WindowHost struct {
	logger  *slog.Logger
	screen  func() (image.Rectangle, error)
	onClose func()

	restore *geometry.Rect
}

// NewWindowHost returns a host. screen reports the display used for
// maximize; onClose runs before the root window is destroyed.
func NewWindowHost(screen func() (image.Rectangle, error), onClose func(), logger *slog.Logger) *WindowHost {
	return &WindowHost{screen: screen, onClose: onClose, logger: logger}
}

// tkCall converts a Tcl error panic into an error.
func tkCall(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tk: %v", r)
		}
	}()
	fn()
	return nil
}

// Geometry reports the current root window geometry.
func (h *WindowHost) Geometry() (geometry.Rect, bool) { return rootGeometry() }

func rootGeometry() (geometry.Rect, bool) {
	var g string
	if err := tkCall(func() { g = WmGeometry(App) }); err != nil {
		return geometry.Rect{}, false
	}
	return geometry.ParseRect(g)
}

func (h *WindowHost) SetGeometry(_ context.Context, size config.Size, pos *config.Position) error {
	g := fmt.Sprintf("%dx%d", size.Width, size.Height)
	if pos != nil {
		g = geometry.Rect{X: pos.X, Y: pos.Y, Width: size.Width, Height: size.Height}.String()
	}
	h.restore = nil
	return tkCall(func() { WmGeometry(App, g) })
}

func (h *WindowHost) SetAlwaysOnTop(_ context.Context, on bool) error {
	v := 0
	if on {
		v = 1
	}
	return tkCall(func() { WmAttributes(App, "-topmost", v) })
}

func (h *WindowHost) Minimize(context.Context) error {
	return tkCall(func() { WmIconify(App) })
}

// ToggleMaximize fills the primary display, or returns to the geometry the
// window had before.
func (h *WindowHost) ToggleMaximize(context.Context) error {
	if h.restore != nil {
		g := h.restore.String()
		h.restore = nil
		return tkCall(func() { WmGeometry(App, g) })
	}
	cur, ok := h.Geometry()
	if !ok {
		return errors.New("unreadable window geometry")
	}
	if h.screen == nil {
		return errors.New("no screen bounds")
	}
	b, err := h.screen()
	if err != nil {
		return err
	}
	full := geometry.FromImage(b).String()
	if err := tkCall(func() { WmGeometry(App, full) }); err != nil {
		return err
	}
	h.restore = &cur
	return nil
}

func (h *WindowHost) Close(context.Context) error {
	if h.onClose != nil {
		h.onClose()
	}
	return tkCall(func() { Destroy(App) })
}
