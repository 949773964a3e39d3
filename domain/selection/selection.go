package selection

import (
	"context"
	"errors"
	"image"

	"github.com/soocke/sawbot-go/domain/geometry"
)

// Kind identifies a selection strategy.
type Kind int

const (
	KindOverlay Kind = iota
	KindSnapshot
)

// String returns the lower-case strategy name.
func (k Kind) String() string {
	switch k {
	case KindOverlay:
		return "overlay"
	case KindSnapshot:
		return "snapshot"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy is returned by Coordinator.Begin while another selection is open.
	ErrBusy = errors.New("another area selection is active")
	// ErrCancelled is returned by Open when the selection was cancelled
	// before the strategy became visible.
	ErrCancelled = errors.New("area selection cancelled")
)

// Result receives a finalized rectangle in absolute screen coordinates.
type Result func(geometry.Rect) error

// Strategy is one way of acquiring a screen rectangle. Open must call end
// exactly once when the strategy is dismissed, with or without a result.
// Once ctx is done Open must not show anything and returns ErrCancelled.
type Strategy interface {
	Kind() Kind
	Open(ctx context.Context, end func()) error
	Cancel()
}

// Capturer produces a full-screen image whose pixels map 1:1 to screen
// coordinates. Bounds().Min is the screen position of the top-left pixel.
type Capturer interface {
	CaptureScreen(ctx context.Context) (image.Image, error)
}
