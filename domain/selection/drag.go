// Package selection implements the two area-selection strategies and the
// coordinator that keeps them mutually exclusive.
package selection

import (
	"image"

	"github.com/soocke/sawbot-go/domain/geometry"
)

// Drag is a pointer rectangle-drag. Points may be in any frame; the rect
// is reported in the same frame.
type Drag struct {
	active  bool
	anchor  image.Point
	current image.Point
}

// Down anchors a new drag.
func (d *Drag) Down(p image.Point) {
	d.active = true
	d.anchor = p
	d.current = p
}

// Move updates the live corner. It reports false when no drag is active.
func (d *Drag) Move(p image.Point) (geometry.Rect, bool) {
	if !d.active {
		return geometry.Rect{}, false
	}
	d.current = p
	return geometry.FromPoints(d.anchor, d.current), true
}

// Up finalizes the drag.
func (d *Drag) Up(p image.Point) (geometry.Rect, bool) {
	if !d.active {
		return geometry.Rect{}, false
	}
	d.current = p
	d.active = false
	return geometry.FromPoints(d.anchor, d.current), true
}

// Cancel drops the gesture in progress.
func (d *Drag) Cancel() { d.active = false }

// Active reports whether a gesture is in progress.
func (d *Drag) Active() bool { return d.active }
