package view

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/soocke/sawbot-go/domain/geometry"
	"github.com/soocke/sawbot-go/ui/images"
	"github.com/soocke/sawbot-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// SnapshotInput is the pointer side of the static selection strategy.
// Coordinates are local to the shown image.
type SnapshotInput interface {
	PointerDown(local image.Point)
	PointerMove(local image.Point)
	PointerUp(local image.Point) (geometry.Rect, bool)
	PointerLeave()
}

// SnapshotModal shows a captured screen at native resolution, placed where
// it was captured so that image pixels line up with screen pixels.
type SnapshotModal struct {
	logger *slog.Logger

	input    SnapshotInput
	onCancel func()

	mu       sync.Mutex
	img      image.Image
	want     bool
	feedback geometry.Rect
	dirty    bool

	win   *ToplevelWidget
	photo *Img
	band  *band
}

func NewSnapshotModal(logger *slog.Logger) *SnapshotModal {
	return &SnapshotModal{logger: logger}
}

// Attach wires pointer input and the Escape / right-click cancel.
func (m *SnapshotModal) Attach(input SnapshotInput, onCancel func()) {
	m.input, m.onCancel = input, onCancel
}

func (m *SnapshotModal) Show(img image.Image) error {
	m.mu.Lock()
	m.img, m.want = img, true
	m.feedback, m.dirty = geometry.Rect{}, true
	m.mu.Unlock()
	return nil
}

func (m *SnapshotModal) Close() error {
	m.mu.Lock()
	m.want, m.img = false, nil
	m.mu.Unlock()
	return nil
}

func (m *SnapshotModal) DrawFeedback(r geometry.Rect) {
	m.mu.Lock()
	m.feedback, m.dirty = r, true
	m.mu.Unlock()
}

func (m *SnapshotModal) ClearFeedback() { m.DrawFeedback(geometry.Rect{}) }

// Sync applies the wanted state on the Tk thread.
func (m *SnapshotModal) Sync() {
	m.mu.Lock()
	want, img, fb, dirty := m.want, m.img, m.feedback, m.dirty
	m.dirty = false
	m.mu.Unlock()

	switch {
	case want && m.win == nil && img != nil:
		m.build(img)
	case !want && m.win != nil:
		m.destroy()
		return
	}
	if m.win != nil && dirty {
		m.band.show(fb)
	}
}

func (m *SnapshotModal) build(img image.Image) {
	b := img.Bounds()
	win := App.Toplevel(Borderwidth(0), Cursor("crosshair"))
	win.WmTitle("Snapshot: drag to select, Esc to cancel")
	WmGeometry(win.Window, fmt.Sprintf("%dx%d+%d+%d", b.Dx(), b.Dy(), b.Min.X, b.Min.Y))
	WmAttributes(win.Window, "-topmost", 1)
	m.photo = NewPhoto(Data(images.EncodePNG(img)))
	shot := win.Label(Image(m.photo), Borderwidth(0), Padx(0), Pady(0))
	Place(shot, X(0), Y(0))
	m.win = win
	m.band = newBand(win, theme.Current().Selection)

	bindPointer(shot.Window, "<ButtonPress-1>", func(l image.Point) {
		if m.input != nil {
			m.input.PointerDown(l)
		}
	})
	bindPointer(shot.Window, "<B1-Motion>", func(l image.Point) {
		if m.input != nil {
			m.input.PointerMove(l)
			m.Sync()
		}
	})
	bindPointer(shot.Window, "<ButtonRelease-1>", func(l image.Point) {
		if m.input == nil {
			return
		}
		if r, ok := m.input.PointerUp(l); ok && m.logger != nil {
			m.logger.Debug("snapshot selection", "rect", r.String())
		}
		m.Sync()
	})
	Bind(shot.Window, "<Leave>", Command(func() {
		if m.input != nil {
			m.input.PointerLeave()
			m.Sync()
		}
	}))
	cancel := func() {
		if m.onCancel != nil {
			m.onCancel()
		}
		m.Sync()
	}
	Bind(win.Window, "<Escape>", Command(cancel))
	Bind(win.Window, "<ButtonPress-3>", Command(cancel))
	WmProtocol(win.Window, "WM_DELETE_WINDOW", cancel)
	Focus(win.Window)
}

func (m *SnapshotModal) destroy() {
	Destroy(m.win)
	if m.photo != nil {
		m.photo.Delete()
	}
	m.win, m.photo, m.band = nil, nil, nil
}
