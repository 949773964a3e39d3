package view

import (
	"image"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// bindPointer routes a mouse event sequence on w to fn with the pointer
// position relative to w.
func bindPointer(w *Window, seq string, fn func(local image.Point)) {
	Bind(w, seq, Command(func(e *Event) {
		fn(image.Pt(e.X, e.Y))
	}))
}
