package presenter

import (
	"log/slog"
	"sync"
)

// Queue collects callbacks posted from background goroutines (backend
// replies, hotkeys, controller listeners) and runs them on the UI thread when
// the loop drains it. The zero value is usable.
type Queue struct {
	mu  sync.Mutex
	fns []func()
}

func (q *Queue) Post(fn func()) {
	if q == nil || fn == nil {
		return
	}
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
}

// Drain runs every queued callback in post order and reports how many ran.
// Callbacks posted while draining run on the next call.
func (q *Queue) Drain() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Runner starts fn off the UI thread.
type Runner func(fn func())

// Background returns a Runner that runs fn on a new goroutine and logs panics.
func Background(logger *slog.Logger) Runner {
	return func(fn func()) {
		go func() {
			defer func() {
				if r := recover(); r != nil && logger != nil {
					logger.Error("background task panic", "panic", r)
				}
			}()
			fn()
		}()
	}
}

// Inline runs fn on the calling goroutine.
func Inline(fn func()) { fn() }
