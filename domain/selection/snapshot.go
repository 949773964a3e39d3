package selection

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/soocke/sawbot-go/domain/geometry"
	"github.com/soocke/sawbot-go/domain/session"
)

// Modal shows a captured image at native resolution and forwards pointer
// events in image-local coordinates.
type Modal interface {
	Show(img image.Image) error
	Close() error
	DrawFeedback(r geometry.Rect)
	ClearFeedback()
}

// Snapshot is the static selection strategy. The captured image is shown
// 1:1, so a local rectangle only needs the capture origin added to become a
// screen rectangle.
type Snapshot struct {
	capturer Capturer
	modal    Modal
	result   Result
	logger   *slog.Logger

	mu     sync.Mutex
	drag   Drag
	open   bool
	origin image.Point
	end    func()
}

// NewSnapshot returns the static strategy. result receives the selected
// rectangle in screen coordinates.
func NewSnapshot(capturer Capturer, modal Modal, result Result, logger *slog.Logger) *Snapshot {
	return &Snapshot{capturer: capturer, modal: modal, result: result, logger: logger}
}

// Kind reports KindSnapshot.
func (s *Snapshot) Kind() Kind { return KindSnapshot }

// Open captures the screen and shows it in the modal. If ctx is cancelled
// during the capture the modal is never shown.
func (s *Snapshot) Open(ctx context.Context, end func()) error {
	img, err := s.capturer.CaptureScreen(ctx)
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
	}
	if err != nil {
		return fmt.Errorf("%w: capture: %w", session.ErrSelectionTool, err)
	}
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("%w: capture returned an empty image", session.ErrSelectionTool)
	}
	// The ctx check and Show share the lock with Cancel, so a cancel either
	// lands before Show or closes the shown modal.
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
	}
	if err := s.modal.Show(img); err != nil {
		return fmt.Errorf("%w: snapshot modal: %w", session.ErrSelectionTool, err)
	}
	s.open = true
	s.drag.Cancel()
	s.origin = img.Bounds().Min
	s.end = end
	return nil
}

// IsOpen reports whether the modal is shown.
func (s *Snapshot) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// PointerDown anchors a drag at local, in snapshot image coordinates.
func (s *Snapshot) PointerDown(local image.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		s.drag.Down(local)
	}
}

// PointerMove redraws the feedback rectangle on the modal.
func (s *Snapshot) PointerMove(local image.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.drag.Move(local); ok {
		s.modal.DrawFeedback(r)
	}
}

// PointerUp finalizes the drag. A non-degenerate rectangle is reported in
// screen coordinates and the modal closes.
func (s *Snapshot) PointerUp(local image.Point) (geometry.Rect, bool) {
	s.mu.Lock()
	r, ok := s.drag.Up(local)
	if !ok {
		s.mu.Unlock()
		return geometry.Rect{}, false
	}
	if r.Empty() {
		s.modal.ClearFeedback()
		s.mu.Unlock()
		return geometry.Rect{}, false
	}
	r = r.Translate(s.origin.X, s.origin.Y)
	end := s.closeLocked()
	s.mu.Unlock()

	if s.result != nil {
		if err := s.result(r); err != nil && s.logger != nil {
			s.logger.Warn("snapshot selection rejected", "rect", r.String(), "error", err)
		}
	}
	if end != nil {
		end()
	}
	return r, true
}

// PointerLeave cancels the in-progress drag; the modal stays open.
func (s *Snapshot) PointerLeave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag.Active() {
		s.drag.Cancel()
		s.modal.ClearFeedback()
	}
}

// Cancel closes the modal without a result.
func (s *Snapshot) Cancel() {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return
	}
	s.drag.Cancel()
	end := s.closeLocked()
	s.mu.Unlock()
	if end != nil {
		end()
	}
}

func (s *Snapshot) closeLocked() func() {
	if err := s.modal.Close(); err != nil && s.logger != nil {
		s.logger.Warn("snapshot modal close failed", "error", err)
	}
	s.open = false
	end := s.end
	s.end = nil
	return end
}
