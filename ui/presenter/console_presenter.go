package presenter

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/soocke/sawbot-go/domain/diag"
)

// ConsoleRows caps how many entries the console renders.
const ConsoleRows = 200

// ToggleDebounce collapses toggles from the global hotkey and the Tk key
// binding that fire for the same key press.
const ToggleDebounce = 300 * time.Millisecond

// ConsoleView renders diagnostics entries, newest first.
type ConsoleView interface {
	SetConsoleVisible(visible bool)
	ShowEntries(entries []diag.Entry)
}

// Clipboard receives the console text on Copy.
type Clipboard interface {
	WriteText(text string) error
}

// ConsolePresenter keeps the debug console in sync with the diagnostics log.
type ConsolePresenter struct {
	log  *diag.Log
	view ConsoleView
	clip Clipboard

	visible    bool
	lastToggle time.Time
	dirty      atomic.Bool
	unsub   func()
}

func NewConsolePresenter(log *diag.Log, view ConsoleView, clip Clipboard) *ConsolePresenter {
	return &ConsolePresenter{log: log, view: view, clip: clip}
}

// Start follows new log entries until Close.
func (p *ConsolePresenter) Start() {
	if p == nil || p.log == nil || p.unsub != nil {
		return
	}
	ch, unsub := p.log.Subscribe(64)
	p.unsub = unsub
	go func() {
		for range ch {
			p.dirty.Store(true)
		}
	}()
}

func (p *ConsolePresenter) Close() {
	if p == nil || p.unsub == nil {
		return
	}
	p.unsub()
	p.unsub = nil
}

func (p *ConsolePresenter) Visible() bool { return p != nil && p.visible }

// Toggle shows or hides the console.
func (p *ConsolePresenter) Toggle() {
	if p == nil || p.view == nil {
		return
	}
	p.visible = !p.visible
	p.view.SetConsoleVisible(p.visible)
	p.dirty.Store(true)
}

// ToggleAt toggles unless another toggle happened within ToggleDebounce.
func (p *ConsolePresenter) ToggleAt(now time.Time) {
	if p == nil {
		return
	}
	if !p.lastToggle.IsZero() && now.Sub(p.lastToggle) < ToggleDebounce {
		return
	}
	p.lastToggle = now
	p.Toggle()
}

// Clear empties the diagnostics log.
func (p *ConsolePresenter) Clear() {
	if p == nil || p.log == nil {
		return
	}
	p.log.Clear()
	p.dirty.Store(true)
}

// Copy puts the visible entries on the clipboard, newest first.
func (p *ConsolePresenter) Copy() error {
	if p == nil || p.log == nil || p.clip == nil {
		return nil
	}
	entries := p.log.Recent(ConsoleRows)
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = FormatEntry(e)
	}
	return p.clip.WriteText(strings.Join(lines, "\n"))
}

// Tick re-renders when the console is visible and the log changed.
func (p *ConsolePresenter) Tick() {
	if p == nil || p.log == nil || p.view == nil || !p.visible {
		return
	}
	if !p.dirty.Swap(false) {
		return
	}
	p.view.ShowEntries(p.log.Recent(ConsoleRows))
}

// FormatEntry renders one console line.
func FormatEntry(e diag.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %-5s ", e.Timestamp.Format("15:04:05.000"), e.Source, strings.ToUpper(string(e.Level)))
	if e.Kind != "" {
		fmt.Fprintf(&b, "%s: ", e.Kind)
	}
	b.WriteString(e.Message)
	return b.String()
}
