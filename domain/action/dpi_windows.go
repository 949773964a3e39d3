//go:build windows

// Package action holds small OS-level hooks the front-end needs before any
// window is created.
package action

import (
	"errors"
	"image"
	"unsafe"

	"golang.org/x/sys/windows"
)

// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2
const dpiPerMonitorAwareV2 = ^uintptr(3) // (HANDLE)-4

var (
	user32                            = windows.NewLazySystemDLL("user32.dll")
	procSetProcessDpiAwarenessContext = user32.NewProc("SetProcessDpiAwarenessContext")
	procSetProcessDPIAware            = user32.NewProc("SetProcessDPIAware")
	procGetCursorPos                  = user32.NewProc("GetCursorPos")
)

// EnableDPIAwareness makes the process per-monitor DPI aware so window,
// pointer and capture coordinates share the physical pixel space.
func EnableDPIAwareness() error {
	if procSetProcessDpiAwarenessContext.Find() == nil {
		r, _, err := procSetProcessDpiAwarenessContext.Call(dpiPerMonitorAwareV2)
		if r != 0 {
			return nil
		}
		// ERROR_ACCESS_DENIED: awareness already set by manifest
		if errors.Is(err, windows.ERROR_ACCESS_DENIED) {
			return nil
		}
	}
	if err := procSetProcessDPIAware.Find(); err != nil {
		return err
	}
	if r, _, err := procSetProcessDPIAware.Call(); r == 0 {
		return err
	}
	return nil
}

type point struct{ X, Y int32 }

// CursorPosition returns the pointer position in screen pixels.
func CursorPosition() (image.Point, error) {
	var p point
	if r, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p))); r == 0 {
		return image.Point{}, err
	}
	return image.Pt(int(p.X), int(p.Y)), nil
}
