package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCorners_NormalizesAllOrientations(t *testing.T) {
	pts := []int{-40, -1, 0, 7, 150, 1920}
	for _, x1 := range pts {
		for _, y1 := range pts {
			for _, x2 := range pts {
				for _, y2 := range pts {
					r := FromCorners(x1, y1, x2, y2)
					require.Equal(t, min(x1, x2), r.X)
					require.Equal(t, min(y1, y2), r.Y)
					require.Equal(t, abs(x2-x1), r.Width)
					require.Equal(t, abs(y2-y1), r.Height)
					require.GreaterOrEqual(t, r.Width, 0)
					require.GreaterOrEqual(t, r.Height, 0)
				}
			}
		}
	}
}

func TestRect_Validity(t *testing.T) {
	assert.False(t, FromCorners(10, 10, 10, 50).Valid(), "zero width")
	assert.False(t, FromCorners(10, 10, 50, 10).Valid(), "zero height")
	assert.False(t, FromCorners(-5, 10, 50, 60).Valid(), "negative x")
	assert.True(t, FromCorners(50, 60, 10, 10).Valid())
}

func TestRect_Within(t *testing.T) {
	screen := image.Rect(0, 0, 1920, 1080)
	assert.True(t, FromCorners(0, 0, 1920, 1080).Within(screen))
	assert.False(t, FromCorners(1900, 0, 1930, 20).Within(screen))
	assert.True(t, FromCorners(1900, 0, 5000, 20).Within(image.Rectangle{}), "unknown bounds")
}

func TestManualSelection_RoundTripThroughRect(t *testing.T) {
	sel := ManualSelection{X1: 150, Y1: 150, X2: 100, Y2: 100}
	r := sel.Rect()
	assert.Equal(t, Rect{X: 100, Y: 100, Width: 50, Height: 50}, r)
	assert.Equal(t, ManualSelection{X1: 100, Y1: 100, X2: 150, Y2: 150}, SelectionFromRect(r))
}

func TestManualSelection_WithCorner(t *testing.T) {
	sel := ManualSelection{}.WithCorner(CornerStart, image.Pt(3, 4)).WithCorner(CornerEnd, image.Pt(30, 40))
	assert.Equal(t, ManualSelection{X1: 3, Y1: 4, X2: 30, Y2: 40}, sel)
}

func TestRect_Translate(t *testing.T) {
	r := Rect{X: 100, Y: 100, Width: 50, Height: 50}
	assert.Equal(t, Rect{X: 40, Y: 100, Width: 50, Height: 50}, r.Translate(-60, 0))
}

func TestParseRect(t *testing.T) {
	r, ok := ParseRect(" 1200x800+10+-20 ")
	assert.True(t, ok)
	assert.Equal(t, Rect{X: 10, Y: -20, Width: 1200, Height: 800}, r)

	r, ok = ParseRect("300x380-5-7")
	assert.True(t, ok)
	assert.Equal(t, Rect{X: -5, Y: -7, Width: 300, Height: 380}, r)

	back, ok := ParseRect(r.String())
	assert.True(t, ok)
	assert.Equal(t, r, back)

	for _, bad := range []string{"", "0x10+0+0", "10x10", "axb+1+2"} {
		_, ok := ParseRect(bad)
		assert.False(t, ok, bad)
	}
}
