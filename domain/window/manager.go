// Package window switches the main window between its full control surface
// and the compact mini player.
package window

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/soocke/sawbot-go/config"
)

// Mode is the window layout.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMini
)

func (m Mode) String() string {
	if m == ModeMini {
		return "mini"
	}
	return "normal"
}

// Compact footprint at scale 1.
const (
	MiniWidth  = 300
	MiniHeight = 380
)

// ErrHost wraps failures of host window operations.
var ErrHost = errors.New("window host operation failed")

// Host performs window operations on the main window.
type Host interface {
	SetGeometry(ctx context.Context, size config.Size, pos *config.Position) error
	SetAlwaysOnTop(ctx context.Context, on bool) error
	Minimize(ctx context.Context) error
	ToggleMaximize(ctx context.Context) error
	Close(ctx context.Context) error
}

// Prefs is the persisted window state.
type Prefs interface {
	LastSize() (config.Size, bool)
	LastPosition() (config.Position, bool)
	AlwaysOnTop() bool
	SetAlwaysOnTop(on bool) error
	MiniModeScale() float64
	RecordGeometry(size config.Size, pos *config.Position) error
}

// Manager owns the live window mode. Toggle either completes or leaves the
// mode unchanged.
type Manager struct {
	host   Host
	prefs  Prefs
	logger *slog.Logger

	mu        sync.Mutex
	mode      Mode
	listeners []func(Mode)
}

// NewManager returns a manager in normal mode. logger may be nil.
func NewManager(host Host, prefs Prefs, logger *slog.Logger) *Manager {
	return &Manager{host: host, prefs: prefs, logger: logger}
}

// Mode returns the current window mode.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// OnModeChange registers a callback run after each completed toggle.
func (m *Manager) OnModeChange(fn func(Mode)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Restore applies the persisted normal geometry and pin preference.
func (m *Manager) Restore(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.host.SetGeometry(ctx, m.normalSize(), m.lastPosition()); err != nil {
		return fmt.Errorf("%w: restore geometry: %w", ErrHost, err)
	}
	if err := m.host.SetAlwaysOnTop(ctx, m.prefs.AlwaysOnTop()); err != nil {
		return fmt.Errorf("%w: restore pin: %w", ErrHost, err)
	}
	return nil
}

// Toggle switches between normal and mini mode. Leaving mini mode persists
// the restored normal geometry.
func (m *Manager) Toggle(ctx context.Context) (Mode, error) {
	m.mu.Lock()
	var next Mode
	var err error
	if m.mode == ModeNormal {
		next, err = ModeMini, m.enterMini(ctx)
	} else {
		next, err = ModeNormal, m.leaveMini(ctx)
	}
	if err != nil {
		cur := m.mode
		m.mu.Unlock()
		if m.logger != nil {
			m.logger.Warn("window mode toggle failed", "mode", cur.String(), "error", err)
		}
		return cur, err
	}
	m.mode = next
	if next == ModeNormal {
		m.persistNormalLocked()
	}
	ls := append([]func(Mode){}, m.listeners...)
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Debug("window mode changed", "mode", next.String())
	}
	for _, fn := range ls {
		fn(next)
	}
	return next, nil
}

func (m *Manager) enterMini(ctx context.Context) error {
	if err := m.host.SetGeometry(ctx, m.miniSize(), nil); err != nil {
		return fmt.Errorf("%w: resize to mini: %w", ErrHost, err)
	}
	if err := m.host.SetAlwaysOnTop(ctx, true); err != nil {
		// back to the normal footprint so no half-applied mode is visible
		_ = m.host.SetGeometry(ctx, m.normalSize(), nil)
		return fmt.Errorf("%w: pin mini window: %w", ErrHost, err)
	}
	return nil
}

func (m *Manager) leaveMini(ctx context.Context) error {
	if err := m.host.SetGeometry(ctx, m.normalSize(), m.lastPosition()); err != nil {
		return fmt.Errorf("%w: restore size: %w", ErrHost, err)
	}
	if err := m.host.SetAlwaysOnTop(ctx, m.prefs.AlwaysOnTop()); err != nil {
		_ = m.host.SetGeometry(ctx, m.miniSize(), nil)
		return fmt.Errorf("%w: restore pin: %w", ErrHost, err)
	}
	return nil
}

func (m *Manager) persistNormalLocked() {
	if err := m.prefs.RecordGeometry(m.normalSize(), m.lastPosition()); err != nil && m.logger != nil {
		m.logger.Warn("persist window geometry", "error", err)
	}
}

func (m *Manager) lastPosition() *config.Position {
	if p, ok := m.prefs.LastPosition(); ok {
		return &p
	}
	return nil
}

func (m *Manager) normalSize() config.Size {
	if s, ok := m.prefs.LastSize(); ok && s.Width > 0 && s.Height > 0 {
		return s
	}
	return config.Size{Width: config.DefaultWindowWidth, Height: config.DefaultWindowHeight}
}

func (m *Manager) miniSize() config.Size {
	scale := m.prefs.MiniModeScale()
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	scale = math.Max(0.5, math.Min(2, scale))
	return config.Size{
		Width:  int(math.Round(MiniWidth * scale)),
		Height: int(math.Round(MiniHeight * scale)),
	}
}

// SetPinned records the user's always-on-top choice. In mini mode the window
// stays pinned and the choice applies on the way back to normal mode.
func (m *Manager) SetPinned(ctx context.Context, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode == ModeNormal {
		if err := m.host.SetAlwaysOnTop(ctx, on); err != nil {
			return fmt.Errorf("%w: pin: %w", ErrHost, err)
		}
	}
	return m.prefs.SetAlwaysOnTop(on)
}

// Pinned reports the effective always-on-top state.
func (m *Manager) Pinned() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode == ModeMini || m.prefs.AlwaysOnTop()
}

// RecordGeometry persists the live window geometry. Mini mode geometry is
// never recorded.
func (m *Manager) RecordGeometry(width, height, x, y int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode != ModeNormal || width <= 0 || height <= 0 {
		return nil
	}
	if s, ok := m.prefs.LastSize(); ok && s.Width == width && s.Height == height {
		if p, ok := m.prefs.LastPosition(); ok && p.X == x && p.Y == y {
			return nil
		}
	}
	return m.prefs.RecordGeometry(config.Size{Width: width, Height: height}, &config.Position{X: x, Y: y})
}

// Minimize iconifies the window.
func (m *Manager) Minimize(ctx context.Context) error {
	if err := m.host.Minimize(ctx); err != nil {
		return fmt.Errorf("%w: minimize: %w", ErrHost, err)
	}
	return nil
}

// ToggleMaximize zooms or unzooms the window.
func (m *Manager) ToggleMaximize(ctx context.Context) error {
	if err := m.host.ToggleMaximize(ctx); err != nil {
		return fmt.Errorf("%w: maximize: %w", ErrHost, err)
	}
	return nil
}

// Close destroys the main window.
func (m *Manager) Close(ctx context.Context) error {
	if err := m.host.Close(ctx); err != nil {
		return fmt.Errorf("%w: close: %w", ErrHost, err)
	}
	return nil
}
