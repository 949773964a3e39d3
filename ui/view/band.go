package view

import (
	"github.com/soocke/sawbot-go/domain/geometry"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const bandWidth = 2

// band draws a rubber-band outline from four thin frames so the content
// underneath stays visible.
type band struct {
	edges [4]*FrameWidget
	shown bool
}

func newBand(parent *ToplevelWidget, color string) *band {
	b := &band{}
	for i := range b.edges {
		b.edges[i] = parent.Frame(Background(color), Borderwidth(0))
	}
	return b
}

func (b *band) show(r geometry.Rect) {
	if b == nil || r.Empty() {
		b.hide()
		return
	}
	w, h := max(r.Width, bandWidth), max(r.Height, bandWidth)
	place := [4][4]int{
		{r.X, r.Y, w, bandWidth},
		{r.X, r.Y + h - bandWidth, w, bandWidth},
		{r.X, r.Y, bandWidth, h},
		{r.X + w - bandWidth, r.Y, bandWidth, h},
	}
	for i, e := range b.edges {
		p := place[i]
		Place(e, X(p[0]), Y(p[1]), Width(p[2]), Height(p[3]))
	}
	b.shown = true
}

func (b *band) hide() {
	if b == nil || !b.shown {
		return
	}
	// Parked off-window with zero size.
	for _, e := range b.edges {
		Place(e, X(-10), Y(-10), Width(0), Height(0))
	}
	b.shown = false
}
