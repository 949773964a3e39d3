// Package hotkey listens for global key presses so the console and the
// selection cancel work even when another window has focus.
package hotkey

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Listener dispatches global key presses to bound actions. Each action runs
// once per physical press; auto-repeat is ignored until the key is released.
type Listener struct {
	logger *slog.Logger

	mu       sync.Mutex
	bindings map[uint16]func()
	names    map[uint16]string
	held     map[uint16]bool
	running  bool
}

func New(logger *slog.Logger) *Listener {
	return &Listener{
		logger:   logger,
		bindings: make(map[uint16]func()),
		names:    make(map[uint16]string),
		held:     make(map[uint16]bool),
	}
}

// Bind attaches fn to a key name such as "f10" or "esc".
func (l *Listener) Bind(key string, fn func()) error {
	name := strings.ToLower(strings.TrimSpace(key))
	code, ok := gohook.Keycode[name]
	if !ok {
		return fmt.Errorf("unknown hotkey %q", key)
	}
	l.mu.Lock()
	l.bindings[code] = fn
	l.names[code] = name
	l.mu.Unlock()
	return nil
}

// Start runs the global hook until ctx is done.
func (l *Listener) Start(ctx context.Context) {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil && l.logger != nil {
				l.logger.Error("hotkey listener panic", "panic", r)
			}
		}()
		evChan := gohook.Start()
		if evChan == nil {
			if l.logger != nil {
				l.logger.Warn("global hotkeys unavailable")
			}
			return
		}
		defer gohook.End()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-evChan:
				if !ok {
					return
				}
				l.handle(ev)
			}
		}
	}()
}

func (l *Listener) handle(ev gohook.Event) {
	var fn func()
	l.mu.Lock()
	switch ev.Kind {
	case gohook.KeyDown, gohook.KeyHold:
		if f, ok := l.bindings[ev.Keycode]; ok && !l.held[ev.Keycode] {
			l.held[ev.Keycode] = true
			fn = f
			if l.logger != nil {
				l.logger.Debug("hotkey", "key", l.names[ev.Keycode])
			}
		}
	case gohook.KeyUp:
		delete(l.held, ev.Keycode)
	}
	l.mu.Unlock()
	if fn != nil {
		fn()
	}
}
