// Package capture grabs the local screen for snapshot selection and reports
// the virtual screen bounds used for out-of-bounds warnings.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"

	kbscreenshot "github.com/kbinani/screenshot"
	vovascreenshot "github.com/vova616/screenshot"
)

// ErrNoDisplay is returned when no active display is found.
var ErrNoDisplay = errors.New("capture: no active display")

// Bounds returns the union of all active display bounds. It falls back to the
// primary screen and returns ErrNoDisplay if neither source is available.
func Bounds() (image.Rectangle, error) {
	var union image.Rectangle
	for i := 0; i < kbscreenshot.NumActiveDisplays(); i++ {
		union = union.Union(kbscreenshot.GetDisplayBounds(i))
	}
	if !union.Empty() {
		return union, nil
	}
	r, err := vovascreenshot.ScreenRect()
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("%w: %w", ErrNoDisplay, err)
	}
	if r.Empty() {
		return image.Rectangle{}, ErrNoDisplay
	}
	return r, nil
}

// PrimaryBounds returns the bounds of the first display.
func PrimaryBounds() (image.Rectangle, error) {
	if kbscreenshot.NumActiveDisplays() > 0 {
		if r := kbscreenshot.GetDisplayBounds(0); !r.Empty() {
			return r, nil
		}
	}
	r, err := vovascreenshot.ScreenRect()
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("%w: %w", ErrNoDisplay, err)
	}
	return r, nil
}

// BoundsFunc returns a func that reports Bounds, or an empty rectangle on
// failure, logging the first failure only. The func is safe for concurrent
// use.
func BoundsFunc(logger *slog.Logger) func() image.Rectangle {
	return boundsFunc(Bounds, logger)
}

func boundsFunc(src func() (image.Rectangle, error), logger *slog.Logger) func() image.Rectangle {
	var logged atomic.Bool
	return func() image.Rectangle {
		b, err := src()
		if err != nil {
			if logger != nil && logged.CompareAndSwap(false, true) {
				logger.Warn("screen bounds unavailable", "error", err)
			}
			return image.Rectangle{}
		}
		return b
	}
}

// LocalCapturer captures the whole virtual screen in-process. The returned
// image's bounds are in screen coordinates.
type LocalCapturer struct {
	logger *slog.Logger
}

// NewLocalCapturer returns a capturer for the local displays.
func NewLocalCapturer(logger *slog.Logger) *LocalCapturer {
	return &LocalCapturer{logger: logger}
}

// CaptureScreen grabs the union of all active displays.
func (l *LocalCapturer) CaptureScreen(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bounds, err := Bounds()
	if err != nil {
		return nil, err
	}
	img, err := kbscreenshot.CaptureRect(bounds)
	if err == nil {
		return placeAt(img, bounds.Min), nil
	}
	if l.logger != nil {
		l.logger.Warn("virtual screen capture failed, using primary screen", "error", err)
	}
	primary, perr := vovascreenshot.CaptureScreen()
	if perr != nil {
		return nil, fmt.Errorf("capture screen: %w", errors.Join(err, perr))
	}
	return primary, nil
}

// placeAt relabels img so its top-left pixel sits at origin. Pixel data is
// shared.
func placeAt(img *image.RGBA, origin image.Point) *image.RGBA {
	size := img.Rect.Size()
	out := *img
	out.Rect = image.Rectangle{Min: origin, Max: origin.Add(size)}
	return &out
}
