package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	return img
}

func TestScaleToFit(t *testing.T) {
	small := solid(10, 10)
	assert.Same(t, image.Image(small), ScaleToFit(small, 20, 20))

	out := ScaleToFit(solid(400, 200), 100, 100)
	assert.Equal(t, image.Rect(0, 0, 100, 50), out.Bounds())
	assert.Nil(t, ScaleToFit(nil, 1, 1))
}

func TestThumbnail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(300, 150)))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	data, err := Thumbnail(path, 60, 60)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Width)
	assert.Equal(t, 30, cfg.Height)

	_, err = Thumbnail(filepath.Join(t.TempDir(), "missing.png"), 10, 10)
	assert.Error(t, err)
}
