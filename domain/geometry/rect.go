package geometry

import (
	"fmt"
	"image"
	"regexp"
	"strconv"
	"strings"
)

// Rect is a normalized screen rectangle. Width and Height are never negative.
// Build it with FromCorners; the zero value is an empty (invalid) rectangle.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FromCorners normalizes two arbitrary corner points.
func FromCorners(x1, y1, x2, y2 int) Rect {
	return Rect{
		X:      min(x1, x2),
		Y:      min(y1, y2),
		Width:  abs(x2 - x1),
		Height: abs(y2 - y1),
	}
}

// FromPoints is FromCorners for image.Point pairs.
func FromPoints(a, b image.Point) Rect { return FromCorners(a.X, a.Y, b.X, b.Y) }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width == 0 || r.Height == 0 }

// Negative reports whether the origin lies left of or above the screen origin.
func (r Rect) Negative() bool { return r.X < 0 || r.Y < 0 }

// Valid reports whether r can be used to start a drawing session.
func (r Rect) Valid() bool { return !r.Empty() && !r.Negative() }

// Within reports whether r fits entirely inside bounds. An empty bounds
// rectangle means "unknown" and always reports true.
func (r Rect) Within(bounds image.Rectangle) bool {
	if bounds.Empty() {
		return true
	}
	return r.Image().In(bounds)
}

// Larger reports whether both sides strictly exceed n.
func (r Rect) Larger(n int) bool { return r.Width > n && r.Height > n }

// Translate shifts r by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Image converts to an image.Rectangle (Min inclusive, Max exclusive).
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// FromImage converts an image.Rectangle, normalizing it on the way.
func FromImage(ir image.Rectangle) Rect {
	return FromCorners(ir.Min.X, ir.Min.Y, ir.Max.X, ir.Max.Y)
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// geomRe matches window geometry strings in the format "WIDTHxHEIGHT+X+Y".
var geomRe = regexp.MustCompile(`^(\d+)x(\d+)([+-]-?\d+)([+-]-?\d+)$`)

// ParseRect parses a window-system geometry string as produced by String.
// Offsets may be written "+-5" or "-5".
func ParseRect(g string) (Rect, bool) {
	m := geomRe.FindStringSubmatch(strings.TrimSpace(g))
	if len(m) != 5 {
		return Rect{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, okX := offset(m[3])
	y, okY := offset(m[4])
	if w <= 0 || h <= 0 || !okX || !okY {
		return Rect{}, false
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, true
}

func offset(s string) (int, bool) {
	s = strings.TrimPrefix(s, "+")
	v, err := strconv.Atoi(s)
	return v, err == nil
}

// ManualSelection holds the two raw corner points of the target area as the
// user entered or captured them.
type ManualSelection struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect derives the normalized rectangle.
func (s ManualSelection) Rect() Rect { return FromCorners(s.X1, s.Y1, s.X2, s.Y2) }

// SelectionFromRect returns the corner form of r (top-left, bottom-right).
func SelectionFromRect(r Rect) ManualSelection {
	return ManualSelection{X1: r.X, Y1: r.Y, X2: r.X + r.Width, Y2: r.Y + r.Height}
}

// Corner identifies one of the two editable points of a ManualSelection.
type Corner int

const (
	CornerStart Corner = iota // x1,y1
	CornerEnd                 // x2,y2
)

func (c Corner) String() string {
	switch c {
	case CornerStart:
		return "start"
	case CornerEnd:
		return "end"
	default:
		return "unknown"
	}
}

// WithCorner returns s with the given corner moved to p.
func (s ManualSelection) WithCorner(c Corner, p image.Point) ManualSelection {
	if c == CornerEnd {
		s.X2, s.Y2 = p.X, p.Y
		return s
	}
	s.X1, s.Y1 = p.X, p.Y
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
