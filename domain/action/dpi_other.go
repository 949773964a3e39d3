//go:build !windows

// Package action holds small OS-level hooks the front-end needs before any
// window is created.
package action

import (
	"errors"
	"image"
)

// EnableDPIAwareness is a no-op: X11 and macOS report window and capture
// coordinates in the same space.
func EnableDPIAwareness() error { return nil }

// CursorPosition is only available on Windows.
func CursorPosition() (image.Point, error) {
	return image.Point{}, errors.ErrUnsupported
}
